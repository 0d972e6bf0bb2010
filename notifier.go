package cashtrackr

import "context"

// LogNotifier is the development Notifier: it writes the would-be email to
// the log instead of sending anything. Deployments plug in a real mail
// transport behind the same interface.
type LogNotifier struct {
	FrontendURL string
	Logger      Logger
}

var _ Notifier = (*LogNotifier)(nil)

func NewLogNotifier(frontendURL string, logger Logger) *LogNotifier {
	if logger == nil {
		logger = defLogger{}
	}
	return &LogNotifier{FrontendURL: frontendURL, Logger: logger}
}

func (n *LogNotifier) SendAccountConfirmation(ctx context.Context, name, email, token string) error {
	n.Logger.Info("account confirmation for %s <%s>: token %s, link %s",
		name, email, token, n.FrontendURL+"/auth/confirm-account")
	return nil
}

func (n *LogNotifier) SendPasswordReset(ctx context.Context, name, email, token string) error {
	n.Logger.Info("password reset for %s <%s>: token %s, link %s",
		name, email, token, n.FrontendURL+"/auth/new-password")
	return nil
}
