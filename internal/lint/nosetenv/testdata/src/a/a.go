package a

import "os"

// Setup is not a test file, so it may touch the environment.
func Setup() error {
	return os.Setenv("PORT", "5000")
}
