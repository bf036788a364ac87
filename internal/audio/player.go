// Package audio plays encoded audio through an external command.
package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// DefaultCommand and DefaultArgs play audio from stdin with ffplay and exit
// when playback finishes.
var (
	DefaultCommand = "ffplay"
	DefaultArgs    = []string{"-nodisp", "-autoexit", "-loglevel", "quiet", "-"}
)

// ExecPlayer pipes audio into a player command's stdin.
type ExecPlayer struct {
	command string
	args    []string
}

func NewExecPlayer(command string, args []string) *ExecPlayer {
	if command == "" {
		command = DefaultCommand
		if args == nil {
			args = DefaultArgs
		}
	}
	return &ExecPlayer{command: command, args: args}
}

// Play blocks until the command exits. Cancelling ctx kills the command.
func (p *ExecPlayer) Play(ctx context.Context, audio []byte) error {
	if len(audio) == 0 {
		return errors.New("no audio to play")
	}

	cmd := exec.CommandContext(ctx, p.command, p.args...)
	cmd.Stdin = bytes.NewReader(audio)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s: %w: %s", p.command, err, msg)
		}
		return fmt.Errorf("%s: %w", p.command, err)
	}
	return nil
}

// Available reports whether the command can be found on PATH.
func (p *ExecPlayer) Available() error {
	if _, err := exec.LookPath(p.command); err != nil {
		return fmt.Errorf("audio player %q not found: %w", p.command, err)
	}
	return nil
}
