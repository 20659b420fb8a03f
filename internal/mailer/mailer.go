// Package mailer sends broadcast email to registrants over SMTP.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"registration-backend/internal/registrations"
	"registration-backend/internal/shared/telemetry"
)

// ErrConfiguration marks a relay misconfiguration detected before any send.
var ErrConfiguration = errors.New("smtp configuration invalid")

// Service resolves recipients from the registration store and dispatches mail
// through a Transport.
type Service struct {
	Repo            registrations.Repo
	Transport       Transport
	Configs         map[string]SMTPConfig
	DefaultProvider string
}

// NewService constructs a Service.
func NewService(repo registrations.Repo, transport Transport, configs map[string]SMTPConfig, defaultProvider string) *Service {
	return &Service{Repo: repo, Transport: transport, Configs: configs, DefaultProvider: defaultProvider}
}

// SendInput is one broadcast request. Recipients is a token list: "all", a
// literal address, or committee codes.
type SendInput struct {
	Recipients []string
	Subject    string
	Body       string
	CC         []string
	BCC        []string
	Provider   string
}

// Result tallies a dispatch run. Every recipient is attempted independently;
// a failed send never stops the remainder.
type Result struct {
	Sent   int      `json:"sent"`
	Failed int      `json:"failed"`
	Errors []string `json:"errors,omitempty"`
}

// Send verifies the relay once, resolves the recipient expression and then
// dispatches one personalized message per address.
func (s *Service) Send(ctx context.Context, in SendInput) (Result, error) {
	cfg, err := s.config(in.Provider)
	if err != nil {
		return Result{}, err
	}
	if err := s.Transport.Verify(ctx, cfg); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	addresses, err := s.resolveRecipients(ctx, in.Recipients)
	if err != nil {
		return Result{}, err
	}

	var result Result
	for _, addr := range addresses {
		vars := s.varsFor(ctx, addr)
		msg := Message{
			To:      addr,
			CC:      in.CC,
			BCC:     in.BCC,
			Subject: Render(in.Subject, vars),
			Body:    Render(in.Body, vars),
		}
		if err := s.Transport.Send(ctx, cfg, msg); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", addr, err))
			telemetry.Warn("mailer.send.failed", map[string]any{"to": addr, "err": err.Error()})
			continue
		}
		result.Sent++
	}

	telemetry.Info("mailer.send.complete", map[string]any{
		"recipients": strings.Join(in.Recipients, ","),
		"sent":       result.Sent,
		"failed":     result.Failed,
	})
	return result, nil
}

func (s *Service) config(provider string) (SMTPConfig, error) {
	name := provider
	if name == "" {
		name = s.DefaultProvider
	}
	cfg, ok := s.Configs[name]
	if !ok || cfg.Host == "" || cfg.From == "" {
		return SMTPConfig{}, fmt.Errorf("%w: provider %q", ErrConfiguration, name)
	}
	return cfg, nil
}

// resolveRecipients expands the recipient token list into concrete addresses.
// The token "all" selects every registered email. A single token containing
// "@" is taken as a literal address. Anything else is read as committee
// codes, matched case-insensitively against each registration's committee
// preferences. Addresses are not deduplicated: two records sharing an email
// get two sends.
func (s *Service) resolveRecipients(ctx context.Context, tokens []string) ([]string, error) {
	cleaned := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if trimmed := strings.TrimSpace(token); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	if len(cleaned) == 0 {
		return nil, &registrations.ValidationError{Violations: []string{"recipients is required"}}
	}

	for _, token := range cleaned {
		if strings.EqualFold(token, "all") {
			regs, err := s.Repo.List(ctx, "submittedAt", true)
			if err != nil {
				return nil, fmt.Errorf("list registrations: %w", err)
			}
			addresses := make([]string, 0, len(regs))
			for _, reg := range regs {
				if reg.Email != "" {
					addresses = append(addresses, reg.Email)
				}
			}
			return addresses, nil
		}
	}

	if len(cleaned) == 1 && strings.Contains(cleaned[0], "@") {
		return []string{cleaned[0]}, nil
	}

	regs, err := s.Repo.List(ctx, "submittedAt", true)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	var addresses []string
	for _, reg := range regs {
		if reg.Email == "" {
			continue
		}
		for _, token := range cleaned {
			if containsFold(reg.Committees, token) {
				addresses = append(addresses, reg.Email)
				break
			}
		}
	}
	return addresses, nil
}

// varsFor builds the personalization variables for one address. Unknown
// addresses still get the email variable so literal sends render cleanly.
func (s *Service) varsFor(ctx context.Context, addr string) []Var {
	vars := []Var{{Name: "email", Value: addr}}
	matches, err := s.Repo.FindByEmail(ctx, addr)
	if err != nil || len(matches) == 0 {
		return vars
	}
	reg := matches[0]
	return append(vars,
		Var{Name: "name", Value: reg.Name},
		Var{Name: "college", Value: reg.College},
		Var{Name: "committees", Value: strings.Join(reg.Committees, ", ")},
		Var{Name: "positions", Value: strings.Join(reg.Positions, ", ")},
		Var{Name: "year", Value: reg.Year},
	)
}

func containsFold(values []string, v string) bool {
	for _, candidate := range values {
		if strings.EqualFold(candidate, v) {
			return true
		}
	}
	return false
}
