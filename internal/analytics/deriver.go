// Package analytics derives dashboard view models from a list of schedules.
// All functions are pure with respect to their input: schedules are only read.
package analytics

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/claude/liftboard/internal/models"
)

// DefaultRecentLimit is how many workouts the recent feed shows.
const DefaultRecentLimit = 3

// PRMode selects how personal-record counts are assigned to top workouts.
type PRMode string

const (
	// PRRandom assigns 1-3 PRs at random to each tagged workout.
	PRRandom PRMode = "random"
	// PRRanked assigns 3, 2, then 1 PR by volume rank.
	PRRanked PRMode = "ranked"
)

// Options configures a Deriver. Zero values select the defaults.
type Options struct {
	Catalog     Catalog
	PRMode      PRMode
	RecentLimit int
	Now         func() time.Time
	Rand        *rand.Rand
}

// Deriver computes dashboard analytics.
type Deriver struct {
	catalog     Catalog
	prMode      PRMode
	recentLimit int
	now         func() time.Time

	mu  sync.Mutex // guards rng
	rng *rand.Rand
}

// New creates a Deriver.
func New(opts Options) *Deriver {
	d := &Deriver{
		catalog:     opts.Catalog,
		prMode:      opts.PRMode,
		recentLimit: opts.RecentLimit,
		now:         opts.Now,
		rng:         opts.Rand,
	}
	if len(d.catalog) == 0 {
		d.catalog = DefaultCatalog()
	}
	if d.prMode == "" {
		d.prMode = PRRandom
	}
	if d.recentLimit <= 0 {
		d.recentLimit = DefaultRecentLimit
	}
	if d.now == nil {
		d.now = time.Now
	}
	if d.rng == nil {
		d.rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x6c69667462))
	}
	return d
}

// Catalog returns the muscle-group catalog in use.
func (d *Deriver) Catalog() Catalog { return d.catalog }

// MuscleGroupScore is one spoke of the strength radar.
type MuscleGroupScore struct {
	Name        string `json:"name"`
	Value       int    `json:"value"`
	FullMark    int    `json:"fullMark"`
	Description string `json:"description"`
	Exercises   int    `json:"exercises"`
}

// MuscleGroups scores every catalog group by its share of classified
// exercises: round(50 + share*45). If nothing is classified every group
// scores 0.
func (d *Deriver) MuscleGroups(schedules []models.Schedule) []MuscleGroupScore {
	counts := make([]int, len(d.catalog))
	total := 0
	for _, s := range schedules {
		for _, w := range s.Workouts {
			for _, ex := range w.Exercises {
				if g := d.catalog.Classify(ex.ExerciseName); g >= 0 {
					counts[g]++
					total++
				}
			}
		}
	}

	out := make([]MuscleGroupScore, len(d.catalog))
	for i, g := range d.catalog {
		out[i] = MuscleGroupScore{
			Name:        g.Name,
			FullMark:    100,
			Description: g.Description(),
			Exercises:   counts[i],
		}
		if total > 0 {
			share := float64(counts[i]) / float64(total)
			out[i].Value = int(math.Round(50 + share*45))
		}
	}
	return out
}

// Intensity buckets a workout by total volume.
type Intensity string

const (
	IntensityLow    Intensity = "Low"
	IntensityMedium Intensity = "Medium"
	IntensityHigh   Intensity = "High"
)

func intensityFor(volume float64) Intensity {
	switch {
	case volume > 2000:
		return IntensityHigh
	case volume > 1000:
		return IntensityMedium
	default:
		return IntensityLow
	}
}

// RecentWorkout is one entry of the recent-workout feed.
type RecentWorkout struct {
	Date            string    `json:"date"`
	Type            string    `json:"type"`
	ScheduleID      string    `json:"scheduleId"`
	ScheduleName    string    `json:"scheduleName"`
	Exercises       []string  `json:"exercises"`
	Duration        string    `json:"duration"`
	DurationMinutes int       `json:"durationMinutes"`
	Intensity       Intensity `json:"intensity"`
	TotalVolume     float64   `json:"totalVolume"`
	SetCount        int       `json:"setCount"`
	PersonalRecords int       `json:"personalRecords,omitempty"`

	at time.Time
}

// RecentWorkouts flattens every workout of every schedule, tags the top
// fifth by volume (at least one) with personal records, and returns the
// newest entries up to the configured limit. Workouts without PerformedAt are
// dated today.
func (d *Deriver) RecentWorkouts(schedules []models.Schedule) []RecentWorkout {
	return d.recentWorkouts(schedules, d.recentLimit)
}

// RecentWorkoutsN is RecentWorkouts with an explicit limit.
func (d *Deriver) RecentWorkoutsN(schedules []models.Schedule, limit int) []RecentWorkout {
	if limit <= 0 {
		limit = d.recentLimit
	}
	return d.recentWorkouts(schedules, limit)
}

func (d *Deriver) recentWorkouts(schedules []models.Schedule, limit int) []RecentWorkout {
	now := d.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var all []RecentWorkout
	for _, s := range schedules {
		for _, w := range s.Workouts {
			all = append(all, buildRecent(s, w, today))
		}
	}
	if len(all) == 0 {
		return []RecentWorkout{}
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].TotalVolume > all[j].TotalVolume
	})
	top := max(1, int(math.Floor(0.2*float64(len(all)))))
	for rank := 0; rank < top; rank++ {
		all[rank].PersonalRecords = d.prCount(rank)
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].at.After(all[j].at)
	})
	if len(all) > limit {
		all = all[:limit]
	}
	return all
}

func (d *Deriver) prCount(rank int) int {
	if d.prMode == PRRanked {
		return max(1, 3-rank)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return 1 + d.rng.IntN(3)
}

func buildRecent(s models.Schedule, w models.Workout, today time.Time) RecentWorkout {
	at := today
	if w.PerformedAt != nil {
		at = *w.PerformedAt
	}

	var volume float64
	sets := 0
	names := make([]string, 0, len(w.Exercises))
	for _, ex := range w.Exercises {
		for _, set := range ex.Sets {
			volume += float64(set.Reps) * set.Weight
		}
		sets += len(ex.Sets)
		if len(ex.Sets) > 0 {
			names = append(names, fmt.Sprintf("%s %d×%d", ex.ExerciseName, len(ex.Sets), ex.Sets[0].Reps))
		} else {
			names = append(names, ex.ExerciseName)
		}
	}

	minutes := sets * 5
	return RecentWorkout{
		Date:            at.Format("2006-01-02"),
		Type:            w.Day,
		ScheduleID:      s.ID,
		ScheduleName:    s.Name,
		Exercises:       names,
		Duration:        fmt.Sprintf("%d min", minutes),
		DurationMinutes: minutes,
		Intensity:       intensityFor(volume),
		TotalVolume:     volume,
		SetCount:        sets,
		at:              at,
	}
}

// Stats are the dashboard's headline counters. The targets and streak are
// placeholder heuristics over the planned workout count, not tracked history.
type Stats struct {
	MonthlyWorkouts int    `json:"monthlyWorkouts"`
	WeeklyTarget    string `json:"weeklyTarget"`
	CurrentStreak   string `json:"currentStreak"`
	VolumeProgress  string `json:"volumeProgress"`
}

// AggregateStats computes the headline counters from the total workout count.
func (d *Deriver) AggregateStats(schedules []models.Schedule) Stats {
	n := 0
	for _, s := range schedules {
		n += len(s.Workouts)
	}
	return Stats{
		MonthlyWorkouts: n,
		WeeklyTarget:    fmt.Sprintf("%d/6", min(n, 5)),
		CurrentStreak:   fmt.Sprintf("%d days", min(n, 14)),
		VolumeProgress:  fmt.Sprintf("%d%%", min(100, n*10)),
	}
}

// DayVolume is one bar of the weekly volume chart.
type DayVolume struct {
	Name     string  `json:"name"`
	Value    float64 `json:"value"`
	Workouts int     `json:"workouts"`
}

var weekdays = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// WeeklyVolume sums volume per weekday, matching workout day labels by their
// first three letters. Labels that are not weekdays are skipped.
func (d *Deriver) WeeklyVolume(schedules []models.Schedule) []DayVolume {
	out := make([]DayVolume, len(weekdays))
	for i, name := range weekdays {
		out[i].Name = name
	}
	for _, s := range schedules {
		for _, w := range s.Workouts {
			i := weekdayIndex(w.Day)
			if i < 0 {
				continue
			}
			out[i].Workouts++
			for _, ex := range w.Exercises {
				for _, set := range ex.Sets {
					out[i].Value += float64(set.Reps) * set.Weight
				}
			}
		}
	}
	return out
}

func weekdayIndex(day string) int {
	day = strings.ToLower(strings.TrimSpace(day))
	if len(day) < 3 {
		return -1
	}
	for i, name := range weekdays {
		if day[:3] == strings.ToLower(name) {
			return i
		}
	}
	return -1
}

// Dashboard bundles every derived view.
type Dashboard struct {
	Stats          Stats              `json:"stats"`
	MuscleGroups   []MuscleGroupScore `json:"muscleGroups"`
	RecentWorkouts []RecentWorkout    `json:"recentWorkouts"`
	WeeklyVolume   []DayVolume        `json:"weeklyVolume"`
	Schedules      int                `json:"schedules"`
}

// Dashboard derives all views from one schedule list.
func (d *Deriver) Dashboard(schedules []models.Schedule) Dashboard {
	return Dashboard{
		Stats:          d.AggregateStats(schedules),
		MuscleGroups:   d.MuscleGroups(schedules),
		RecentWorkouts: d.RecentWorkouts(schedules),
		WeeklyVolume:   d.WeeklyVolume(schedules),
		Schedules:      len(schedules),
	}
}
