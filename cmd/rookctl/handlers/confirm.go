package handlers

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
)

var isInteractiveTTY = func() bool {
	return (isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())) &&
		(isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()))
}

// promptReset asks the operator to confirm wiping host.
func promptReset(ctx context.Context, host, stagingDir string) (bool, error) {
	if !isInteractiveTTY() {
		return false, errors.New("reset wipes storage devices; pass --yes to run without a terminal")
	}

	var confirmed bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Reset rook-ceph and wipe the volumes of %s?", host)).
				Description(fmt.Sprintf("Manifests staged in %s are deleted from the cluster. Data on the wiped devices cannot be recovered.", stagingDir)).
				Affirmative("Wipe").
				Negative("Cancel").
				Value(&confirmed),
		),
	).RunWithContext(ctx)
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, fmt.Errorf("confirmation prompt failed: %w", err)
	}
	return confirmed, nil
}
