package steamcmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrUnavailable is returned when the tool is missing or fails its availability probe.
var ErrUnavailable = errors.New("steamcmd unavailable")

// listOfDLCPattern matches every `"listofdlc" "<ids>"` pair in an app_info dump.
var listOfDLCPattern = regexp.MustCompile(`"listofdlc"\s*"([^"]+)"`)

// waitDelay bounds how long we wait for output pipes after the process is killed.
const waitDelay = 5 * time.Second

// Runner invokes SteamCMD as a subprocess.
type Runner struct {
	cfg    Config
	logger *zap.Logger
}

// NewRunner creates a Runner.
func NewRunner(cfg Config, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{cfg: cfg, logger: logger}
}

// Available reports whether the tool starts and exits cleanly.
func (r *Runner) Available(ctx context.Context) bool {
	_, err := r.run(ctx, seconds(r.cfg.ProbeTimeoutSeconds, 10), "+quit")
	if err != nil {
		r.logger.Debug("SteamCMD probe failed", zap.String("path", r.cfg.Path), zap.Error(err))
		return false
	}
	return true
}

// AppInfo returns the raw app_info dump for appID, requested anonymously.
func (r *Runner) AppInfo(ctx context.Context, appID int) (string, error) {
	id := strconv.Itoa(appID)
	out, err := r.run(ctx, seconds(r.cfg.TimeoutSeconds, 60),
		"+login", "anonymous",
		"+app_info_request", id,
		"+app_info_print", id,
		"+quit",
	)
	if err != nil {
		return "", fmt.Errorf("app_info for %s: %w", id, err)
	}
	return out, nil
}

// ListDLC probes the tool, dumps the app record and returns every DLC id it lists.
func (r *Runner) ListDLC(ctx context.Context, appID int) ([]string, error) {
	if !r.Available(ctx) {
		return nil, ErrUnavailable
	}
	out, err := r.AppInfo(ctx, appID)
	if err != nil {
		return nil, err
	}
	ids := ParseDLCList(out)
	r.logger.Info("SteamCMD listed DLC ids", zap.Int("app_id", appID), zap.Int("count", len(ids)))
	return ids, nil
}

func (r *Runner) run(ctx context.Context, timeout time.Duration, args ...string) (string, error) {
	if r.cfg.Path == "" {
		return "", ErrUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, r.cfg.Path, args...)
	cmd.WaitDelay = waitDelay

	out, err := cmd.Output()
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		return "", fmt.Errorf("steamcmd failed: %w", err)
	}
	return string(out), nil
}

// ParseDLCList extracts all numeric ids from every listofdlc field, deduplicated and
// sorted numerically.
func ParseDLCList(output string) []string {
	seen := make(map[string]struct{})
	for _, match := range listOfDLCPattern.FindAllStringSubmatch(output, -1) {
		for _, token := range strings.Split(match[1], ",") {
			token = strings.TrimSpace(token)
			if !isDigits(token) {
				continue
			}
			seen[token] = struct{}{}
		}
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, _ := strconv.Atoi(ids[i])
		b, _ := strconv.Atoi(ids[j])
		return a < b
	})
	return ids
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func seconds(n, fallback int) time.Duration {
	if n <= 0 {
		n = fallback
	}
	return time.Duration(n) * time.Second
}
