package brain

import (
	"regexp"
	"strconv"
	"strings"
)

// Action is one structured command extracted from model output, ready to be
// forwarded to the bot as an action envelope.
type Action struct {
	Name   string
	Params map[string]any
}

var actionPattern = regexp.MustCompile(`\[ACTION:(\w+)(?::([^\]]*))?\]`)

// ExtractActions parses [ACTION:name] / [ACTION:name:param] tags out of a
// model response. Returns the response with every tag removed and whitespace
// collapsed, plus the recognized actions in order of appearance. Unknown
// action names and malformed params are stripped but emit nothing.
func ExtractActions(text string) (string, []Action) {
	var actions []Action
	for _, m := range actionPattern.FindAllStringSubmatch(text, -1) {
		name, param := m[1], m[2]
		switch name {
		case "send_chat":
			actions = append(actions, Action{Name: "send_chat", Params: map[string]any{"message": param}})
		case "follow_player":
			actions = append(actions, Action{Name: "follow_player", Params: map[string]any{"name": param}})
		case "stop_follow", "eat", "flee", "stop_attack":
			actions = append(actions, Action{Name: name, Params: map[string]any{}})
		case "look_at":
			if coords, ok := parseCoords(param); ok {
				actions = append(actions, Action{Name: "look_at", Params: coords})
			}
		case "attack_mob":
			params := map[string]any{}
			if param != "" {
				params["name"] = param
			}
			actions = append(actions, Action{Name: "attack_mob", Params: params})
		}
	}

	clean := actionPattern.ReplaceAllString(text, "")
	return collapseSpace(clean), actions
}

// parseCoords expects exactly three comma-separated numbers.
func parseCoords(param string) (map[string]any, bool) {
	parts := strings.Split(param, ",")
	if len(parts) != 3 {
		return nil, false
	}
	vals := make([]float64, 3)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, false
		}
		vals[i] = v
	}
	return map[string]any{"x": vals[0], "y": vals[1], "z": vals[2]}, true
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
