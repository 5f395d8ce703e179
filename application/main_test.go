package application_test

import (
	"os"
	"testing"

	"github.com/JGonCor/lottery-platform-sub001/config"
)

func TestMain(m *testing.M) {
	// Set up test config once for all tests
	config.SetTestConfig(config.NewTestConfig())

	// Ensure config is loaded before running tests
	_ = config.Get()

	// Run tests
	code := m.Run()

	// Exit with test result code
	os.Exit(code)
}
