package email

import (
	"fmt"
	"html/template"
	"strings"
	"sync"
)

const roleApprovedTemplate = `
<html>
<body style="font-family: sans-serif; color: #222;">
  <h2>Role request approved</h2>
  <p>Hi,</p>
  <p>Your request to become a <strong>{{.Role}}</strong> has been approved.
  The change is already active on your profile.</p>
  <p>— The CircuitHub team</p>
</body>
</html>`

const roleRejectedTemplate = `
<html>
<body style="font-family: sans-serif; color: #222;">
  <h2>Role request update</h2>
  <p>Hi,</p>
  <p>Your request to become a <strong>{{.Role}}</strong> has been rejected.</p>
  <p>Reason: {{.Reason}}</p>
  <p>You can submit a new request from your profile page at any time.</p>
  <p>— The CircuitHub team</p>
</body>
</html>`

// TemplateManager renders named HTML templates for outgoing mail.
type TemplateManager struct {
	templates map[string]*template.Template
	mutex     sync.RWMutex
}

func NewTemplateManager() *TemplateManager {
	tm := &TemplateManager{templates: make(map[string]*template.Template)}
	// Built-in templates are trusted; a parse failure here is a programmer error.
	if err := tm.AddTemplate("role_approved", roleApprovedTemplate); err != nil {
		panic(err)
	}
	if err := tm.AddTemplate("role_rejected", roleRejectedTemplate); err != nil {
		panic(err)
	}
	return tm
}

func (tm *TemplateManager) AddTemplate(name, templateStr string) error {
	tpl, err := template.New(name).Parse(templateStr)
	if err != nil {
		return fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	tm.mutex.Lock()
	tm.templates[name] = tpl
	tm.mutex.Unlock()
	return nil
}

func (tm *TemplateManager) Render(name string, data any) (string, error) {
	tm.mutex.RLock()
	tpl, ok := tm.templates[name]
	tm.mutex.RUnlock()

	if !ok {
		return "", fmt.Errorf("template not found: %s", name)
	}

	var buf strings.Builder
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return buf.String(), nil
}
