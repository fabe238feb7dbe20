//go:build !gui

package gui

import (
	"errors"
	"testing"

	"github.com/san-kum/gondola/internal/config"
)

func TestRunUnavailable(t *testing.T) {
	if err := Run(config.DefaultConfig()); !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}
