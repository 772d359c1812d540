package email

// Provider sends transactional mail to members.
type Provider interface {
	// Send delivers a rendered message.
	Send(to, subject, htmlBody string) error

	// SendRoleDecision notifies a member that their role request was
	// approved or rejected. reason is only used for rejections.
	SendRoleDecision(to, role string, approved bool, reason string) error
}

// NoopProvider satisfies Provider when email delivery is disabled.
type NoopProvider struct{}

func (NoopProvider) Send(string, string, string) error { return nil }

func (NoopProvider) SendRoleDecision(string, string, bool, string) error { return nil }
