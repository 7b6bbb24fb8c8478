package command

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/sandevgo/quorum/internal/core"
	"github.com/sandevgo/quorum/internal/service/answer"
)

type FilterCommand struct {
	selection *answer.Selection
	formatter *ResponseFormatter
}

func NewFilterCommand(selection *answer.Selection) *FilterCommand {
	return &FilterCommand{selection: selection, formatter: NewResponseFormatter()}
}

func (c *FilterCommand) Name() string { return "filter" }

func (c *FilterCommand) Description() string {
	return "Show or change the answer filter"
}

func (c *FilterCommand) Execute(ctx context.Context, chatID string, args []string) (string, error) {
	if len(args) == 0 {
		return c.show(), nil
	}

	var err error
	switch args[0] {
	case "reset":
		err = c.selection.ResetFilter()
	case "providers":
		list := ParseList(args[1:])
		err = c.selection.UpdateFilter(core.FilterUpdate{Providers: &list})
	case "keywords":
		list := ParseList(args[1:])
		err = c.selection.UpdateFilter(core.FilterUpdate{Keywords: &list})
	case "minlength":
		if len(args) != 2 {
			return c.usage(), nil
		}
		n, convErr := strconv.Atoi(args[1])
		if convErr != nil {
			return "", fmt.Errorf("%w: min length must be an integer", core.ErrValidation)
		}
		err = c.selection.UpdateFilter(core.FilterUpdate{MinLength: &n})
	default:
		return c.usage(), nil
	}
	if err != nil {
		return "", err
	}
	return c.formatter.Combine(c.formatter.Success("Filter updated"), c.show()), nil
}

func (c *FilterCommand) show() string {
	cfg := c.selection.FilterConfig()
	return c.formatter.Combine(
		c.formatter.Info("Answer filter"),
		c.formatter.Label("Providers", orAny(cfg.Providers)),
		c.formatter.Label("Min length", strconv.Itoa(cfg.MinLength)),
		c.formatter.Label("Keywords", orAny(cfg.Keywords)),
	)
}

func (c *FilterCommand) usage() string {
	return c.formatter.Usage("/filter [reset | providers a,b | keywords x,y | minlength n]")
}

type PreferCommand struct {
	selection *answer.Selection
	formatter *ResponseFormatter
}

func NewPreferCommand(selection *answer.Selection) *PreferCommand {
	return &PreferCommand{selection: selection, formatter: NewResponseFormatter()}
}

func (c *PreferCommand) Name() string { return "prefer" }

func (c *PreferCommand) Description() string {
	return "Show or change how the best answer is chosen"
}

func (c *PreferCommand) Execute(ctx context.Context, chatID string, args []string) (string, error) {
	if len(args) == 0 {
		return c.show(), nil
	}

	var err error
	switch args[0] {
	case "reset":
		err = c.selection.ResetRecommendation()
	case "providers":
		list := ParseList(args[1:])
		err = c.selection.UpdateRecommendation(core.RecommendationUpdate{PreferredProviders: &list})
	case "length", "ratings":
		if len(args) != 2 {
			return c.usage(), nil
		}
		on, parseErr := ParseSwitch(args[1])
		if parseErr != nil {
			return "", parseErr
		}
		u := core.RecommendationUpdate{UseContentLength: &on}
		if args[0] == "ratings" {
			u = core.RecommendationUpdate{UseUserRatings: &on}
		}
		err = c.selection.UpdateRecommendation(u)
	default:
		return c.usage(), nil
	}
	if err != nil {
		return "", err
	}
	return c.formatter.Combine(c.formatter.Success("Recommendation updated"), c.show()), nil
}

func (c *PreferCommand) show() string {
	cfg := c.selection.RecommendationConfig()
	return c.formatter.Combine(
		c.formatter.Info("Recommendation"),
		c.formatter.Label("Preferred providers", orAny(cfg.PreferredProviders)),
		c.formatter.Label("Use ratings", onOff(cfg.UseUserRatings)),
		c.formatter.Label("Use length", onOff(cfg.UseContentLength)),
	)
}

func (c *PreferCommand) usage() string {
	return c.formatter.Usage("/prefer [reset | providers a,b | ratings on|off | length on|off]")
}

// ParseList splits comma-separated args into a list. Provider labels may
// contain spaces, so args are rejoined before splitting. "none" or no args
// yield an empty list.
func ParseList(args []string) []string {
	joined := strings.TrimSpace(strings.Join(args, " "))
	if joined == "" || joined == "none" {
		return []string{}
	}
	var out []string
	for _, item := range strings.Split(joined, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if out == nil {
		return []string{}
	}
	return out
}

// ParseSwitch reads on/off style flags.
func ParseSwitch(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "true", "yes", "1":
		return true, nil
	case "off", "false", "no", "0":
		return false, nil
	}
	return false, fmt.Errorf("%w: expected on or off, got %q", core.ErrValidation, s)
}

func orAny(items []string) string {
	if len(items) == 0 {
		return "any"
	}
	return strings.Join(items, ", ")
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
