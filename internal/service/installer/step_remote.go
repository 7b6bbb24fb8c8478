package installer

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/sandevgo/quorum/internal/core"
)

const defaultBaseURL = "http://127.0.0.1:5000"

func NewBaseURLStep() Step {
	return NewInputStep("Answer server URL:", defaultBaseURL, applyBaseURL, optional())
}

func applyBaseURL(state *InstallState, value string) error {
	u, err := url.Parse(value)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: expected an http(s) URL", core.ErrValidation)
	}
	state.App.APIBaseURL = strings.TrimRight(value, "/")
	return nil
}

func NewUserIDStep() Step {
	return NewInputStep("Your user id on the answer server:", "1", applyUserID)
}

func applyUserID(state *InstallState, value string) error {
	if value == "" {
		return fmt.Errorf("%w: user id is required", core.ErrValidation)
	}
	state.App.UserID = value
	return nil
}

func NewLabelsStep() Step {
	return NewInputStep("Names of the three providers, comma separated:", "Provider A,Provider B,Provider C",
		applyLabels, optional())
}

func applyLabels(state *InstallState, value string) error {
	parts := strings.Split(value, ",")
	labels := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			labels = append(labels, p)
		}
	}
	if len(labels) != 3 {
		return fmt.Errorf("%w: expected 3 names, got %d", core.ErrValidation, len(labels))
	}
	state.App.ProviderLabels = labels
	return nil
}
