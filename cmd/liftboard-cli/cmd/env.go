package cmd

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
)

// saveToken sets LIFTBOARD_TOKEN in the dotenv file at path, keeping its other keys.
func saveToken(path, token string) error {
	env, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		env = map[string]string{}
	} else if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	env["LIFTBOARD_TOKEN"] = token
	if err := godotenv.Write(env, path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
