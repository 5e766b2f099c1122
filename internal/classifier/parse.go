package classifier

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/mohamedkhairy/stock-analyst/internal/models"
)

var (
	fencePattern = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*(.*?)\\s*```")
	linePattern  = regexp.MustCompile(`(?im)^\s*\**\s*(action|justification)\s*\**\s*[:=]\s*(.+?)\s*$`)
)

// Parse extracts {action, justification} from a model response.
// Any non-empty action is accepted verbatim. A response with no action
// yields an unparseable classification that keeps the raw text.
func Parse(raw string) models.Classification {
	text := strings.TrimSpace(raw)
	if text == "" {
		return unparseable(raw, "empty response")
	}

	if m := fencePattern.FindStringSubmatch(text); m != nil {
		text = m[1]
	}

	if obj, ok := extractObject(text); ok {
		action := stringField(obj, "action")
		if action == "" {
			return unparseable(raw, "response has no action field")
		}
		return models.Classification{
			Status:        models.ClassificationParsed,
			Action:        models.Action(action),
			Justification: stringField(obj, "justification"),
			Raw:           raw,
		}
	}

	// Plain "Action: Buy" lines
	var action, justification string
	for _, m := range linePattern.FindAllStringSubmatch(text, -1) {
		value := strings.Trim(m[2], `"'*`)
		switch strings.ToLower(m[1]) {
		case "action":
			if action == "" {
				action = strings.TrimSpace(value)
			}
		case "justification":
			if justification == "" {
				justification = strings.TrimSpace(value)
			}
		}
	}
	if action == "" {
		return unparseable(raw, "no JSON object or action line in response")
	}
	return models.Classification{
		Status:        models.ClassificationParsed,
		Action:        models.Action(action),
		Justification: justification,
		Raw:           raw,
	}
}

func unparseable(raw, reason string) models.Classification {
	return models.Classification{
		Status: models.ClassificationUnparseable,
		Raw:    raw,
		Reason: reason,
	}
}

// extractObject decodes the outermost {...} span of text
func extractObject(text string) (map[string]interface{}, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, false
	}
	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(text[start:end+1]), &obj); err != nil {
		return nil, false
	}
	return obj, true
}

// stringField looks a key up case-insensitively and renders it as text
func stringField(obj map[string]interface{}, key string) string {
	for k, v := range obj {
		if !strings.EqualFold(k, key) || v == nil {
			continue
		}
		switch val := v.(type) {
		case string:
			return strings.TrimSpace(val)
		default:
			return strings.TrimSpace(fmt.Sprint(val))
		}
	}
	return ""
}
