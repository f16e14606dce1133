package useragent

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"
)

// CommandProbe reads the ambient string from the output of a short-lived process.
type CommandProbe struct {
	Name string
	Args []string

	// Format turns trimmed process output into the ambient string.
	// Defaults to UnameAmbient.
	Format func(output string) string
}

// DefaultCommandProbe runs "uname -sm".
func DefaultCommandProbe() CommandProbe {
	return CommandProbe{Name: "uname", Args: []string{"-sm"}}
}

// UnameAmbient converts "uname -sm" output such as "Linux x86_64" into a
// browser-style string "Mozilla/5.0 (Linux; x86_64)". It returns "" for
// output it does not recognize.
func UnameAmbient(output string) string {
	fields := strings.Fields(output)
	if len(fields) < 2 {
		return ""
	}
	sys, machine := fields[0], fields[len(fields)-1]
	if strings.EqualFold(sys, "Darwin") {
		sys = "Macintosh"
	}
	return fmt.Sprintf("Mozilla/5.0 (%s; %s)", sys, machine)
}

// Open starts the process.
func (p CommandProbe) Open(ctx context.Context) (Surface, error) {
	cmd := exec.CommandContext(ctx, p.Name, p.Args...)
	s := &commandSurface{
		cmd:    cmd,
		done:   make(chan struct{}),
		format: p.Format,
	}
	if s.format == nil {
		s.format = UnameAmbient
	}
	cmd.Stdout = &s.out
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", p.Name, err)
	}
	go func() {
		s.err = cmd.Wait()
		close(s.done)
	}()
	return s, nil
}

type commandSurface struct {
	cmd    *exec.Cmd
	out    bytes.Buffer
	done   chan struct{}
	err    error
	format func(string) string

	closeOnce sync.Once
}

func (s *commandSurface) Query(ctx context.Context) (string, error) {
	select {
	case <-s.done:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	if s.err != nil {
		return "", fmt.Errorf("run %s: %w", s.cmd.Path, s.err)
	}
	return s.format(strings.TrimSpace(s.out.String())), nil
}

// Close kills the process if it is still running and waits for it to exit.
func (s *commandSurface) Close() error {
	s.closeOnce.Do(func() {
		select {
		case <-s.done:
		default:
			_ = s.cmd.Process.Kill()
			<-s.done
		}
	})
	return nil
}
