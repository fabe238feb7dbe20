//go:build !gui

package gui

import "github.com/san-kum/gondola/internal/config"

func Run(cfg *config.Config) error {
	return ErrUnavailable
}
