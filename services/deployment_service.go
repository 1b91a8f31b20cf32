package services

import (
	"fmt"
	"go/version"
	"runtime"
	"strings"

	"github.com/section3-pro/compliance-backend/config"
	"github.com/section3-pro/compliance-backend/logger"
	"github.com/section3-pro/compliance-backend/types"
	"go.uber.org/zap"
)

// MinGoVersion is the oldest Go runtime a deployment may run on.
const MinGoVersion = "go1.22"

// Prerequisite is one entry of the deployment checklist. Check reports whether
// the entry passed and a message describing the outcome.
type Prerequisite struct {
	Name     string
	Severity types.Severity
	Check    func(cfg *config.Config) (passed bool, message string)
}

// DeploymentService evaluates the deployment checklist against a config snapshot.
type DeploymentService struct {
	cfg    *config.Config
	checks []Prerequisite
	log    *zap.SugaredLogger
}

func NewDeploymentService(cfg *config.Config) *DeploymentService {
	return NewDeploymentServiceWithChecks(cfg, DefaultPrerequisites(runtime.Version))
}

// NewDeploymentServiceWithChecks uses checks instead of the default checklist.
func NewDeploymentServiceWithChecks(cfg *config.Config, checks []Prerequisite) *DeploymentService {
	return &DeploymentService{
		cfg:    cfg,
		checks: append([]Prerequisite(nil), checks...),
		log:    logger.GetLogger(),
	}
}

// TotalChecks is the number of registered checks, reported as summary.total.
func (s *DeploymentService) TotalChecks() int {
	return len(s.checks)
}

// CheckPrerequisites runs every check in order. A check that panics is
// recorded as failed; a panic outside the checks yields a failed report.
func (s *DeploymentService) CheckPrerequisites() (report types.PrerequisiteReport) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Errorw("Prerequisite validation panicked", "panic", r)
			report = types.PrerequisiteReport{
				Passed:   false,
				Errors:   []string{fmt.Sprintf("prerequisite validation failed: %v", r)},
				Warnings: []string{},
				Summary:  types.ReportSummary{Total: len(s.checks), Errors: 1},
			}
		}
	}()

	results := make([]types.PrerequisiteCheck, 0, len(s.checks))
	for _, c := range s.checks {
		results = append(results, s.runCheck(c))
	}

	report = foldChecks(results, len(s.checks))
	s.log.Infow("Deployment prerequisites evaluated",
		"passed", report.Passed,
		"errors", report.Summary.Errors,
		"warnings", report.Summary.Warnings)
	return report
}

func (s *DeploymentService) runCheck(c Prerequisite) (result types.PrerequisiteCheck) {
	result = types.PrerequisiteCheck{Name: c.Name, Severity: c.Severity}
	defer func() {
		if r := recover(); r != nil {
			s.log.Warnw("Prerequisite check panicked", "check", c.Name, "panic", r)
			result.Passed = false
			result.Message = fmt.Sprintf("%s check failed: %v", c.Name, r)
		}
	}()

	result.Passed, result.Message = c.Check(s.cfg)
	return result
}

// foldChecks builds a report. Failed error checks go to Errors; failed warning
// and info checks go to Warnings. Both lists hold distinct messages in order.
func foldChecks(checks []types.PrerequisiteCheck, total int) types.PrerequisiteReport {
	report := types.PrerequisiteReport{
		Passed:   true,
		Errors:   []string{},
		Warnings: []string{},
		Checks:   checks,
	}
	seenErrors := make(map[string]struct{})
	seenWarnings := make(map[string]struct{})

	passed := 0
	for _, c := range checks {
		if c.Passed {
			passed++
			continue
		}
		if c.Severity == types.SeverityError {
			report.Passed = false
			if _, ok := seenErrors[c.Message]; !ok {
				seenErrors[c.Message] = struct{}{}
				report.Errors = append(report.Errors, c.Message)
			}
			continue
		}
		if _, ok := seenWarnings[c.Message]; !ok {
			seenWarnings[c.Message] = struct{}{}
			report.Warnings = append(report.Warnings, c.Message)
		}
	}

	report.Summary = types.ReportSummary{
		Total:    total,
		Passed:   passed,
		Errors:   len(report.Errors),
		Warnings: len(report.Warnings),
	}
	return report
}

// DefaultPrerequisites is the deployment checklist. goVersion reports the
// running toolchain, normally runtime.Version.
func DefaultPrerequisites(goVersion func() string) []Prerequisite {
	return []Prerequisite{
		{Name: "supabase_url", Severity: types.SeverityError, Check: func(cfg *config.Config) (bool, string) {
			switch {
			case cfg.Supabase.URL == "":
				return false, "SUPABASE_URL is not configured"
			case !config.IsSecureURL(cfg.Supabase.URL):
				return false, "SUPABASE_URL must be a secure https:// endpoint"
			}
			return true, "SUPABASE_URL is configured"
		}},
		{Name: "supabase_anon_key", Severity: types.SeverityError, Check: present(func(c *config.Config) string { return c.Supabase.AnonKey }, "SUPABASE_ANON_KEY")},
		{Name: "supabase_service_key", Severity: types.SeverityError, Check: present(func(c *config.Config) string { return c.Supabase.ServiceKey }, "SUPABASE_SERVICE_ROLE_KEY")},
		{Name: "jwt_secret", Severity: types.SeverityError, Check: minLength(func(c *config.Config) string { return c.Security.JWTSecret }, "JWT_SECRET")},
		{Name: "encryption_key", Severity: types.SeverityError, Check: minLength(func(c *config.Config) string { return c.Security.EncryptionKey }, "ENCRYPTION_KEY")},
		{Name: "ai_api_key", Severity: types.SeverityWarning, Check: present(func(c *config.Config) string { return c.AI.APIKey }, "OPENAI_API_KEY")},
		{Name: "email_credentials", Severity: types.SeverityWarning, Check: func(cfg *config.Config) (bool, string) {
			if !cfg.EmailConfigured() {
				return false, "Email credentials are not configured (SMTP_HOST/SMTP_USER/SMTP_PASSWORD or RESEND_API_KEY)"
			}
			return true, "Email credentials are configured"
		}},
		{Name: "sms_credentials", Severity: types.SeverityWarning, Check: func(cfg *config.Config) (bool, string) {
			if !cfg.SMSConfigured() {
				return false, "SMS credentials are not configured (TWILIO_ACCOUNT_SID/TWILIO_AUTH_TOKEN)"
			}
			return true, "SMS credentials are configured"
		}},
		{Name: "slack_webhook", Severity: types.SeverityWarning, Check: func(cfg *config.Config) (bool, string) {
			switch {
			case cfg.Notification.SlackWebhookURL == "":
				return false, "SLACK_WEBHOOK_URL is not configured"
			case !config.IsSecureURL(cfg.Notification.SlackWebhookURL):
				return false, "SLACK_WEBHOOK_URL must be an https:// URL"
			}
			return true, "SLACK_WEBHOOK_URL is configured"
		}},
		{Name: "runtime_version", Severity: types.SeverityError, Check: func(*config.Config) (bool, string) {
			v := toolchainVersion(goVersion())
			if !version.IsValid(v) || version.Compare(v, MinGoVersion) < 0 {
				return false, fmt.Sprintf("Go runtime %s is older than the required %s", goVersion(), MinGoVersion)
			}
			return true, fmt.Sprintf("Go runtime %s", v)
		}},
		{Name: "environment", Severity: types.SeverityInfo, Check: func(cfg *config.Config) (bool, string) {
			return true, fmt.Sprintf("Environment: %s", cfg.Server.Environment)
		}},
	}
}

func present(get func(*config.Config) string, setting string) func(*config.Config) (bool, string) {
	return func(cfg *config.Config) (bool, string) {
		if get(cfg) == "" {
			return false, setting + " is not configured"
		}
		return true, setting + " is configured"
	}
}

func minLength(get func(*config.Config) string, setting string) func(*config.Config) (bool, string) {
	return func(cfg *config.Config) (bool, string) {
		value := get(cfg)
		switch {
		case value == "":
			return false, setting + " is not configured"
		case len(value) < config.MinSecretLength:
			return false, fmt.Sprintf("%s must be at least %d characters (got %d)", setting, config.MinSecretLength, len(value))
		}
		return true, setting + " is configured"
	}
}

// toolchainVersion extracts the goX.Y[.Z] part of a runtime version string
// such as "go1.24.1" or "devel go1.25-abcdef Tue Jan 1".
func toolchainVersion(v string) string {
	for _, field := range strings.Fields(v) {
		if strings.HasPrefix(field, "go") {
			if i := strings.IndexByte(field, '-'); i > 0 {
				field = field[:i]
			}
			return field
		}
	}
	return v
}
