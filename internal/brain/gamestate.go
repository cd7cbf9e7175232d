package brain

import (
	"fmt"
	"strconv"
	"strings"
)

// GameState is the latest snapshot of the bot's situation, merged in place
// from game_state events. Only the most recent value per field is kept.
type GameState struct {
	Health    *float64
	Food      *float64
	Biome     string
	TimeOfDay string
	Dimension string
	Raining   bool
	Hostiles  []Hostile
	Inventory []Item
	Effects   []Effect
}

type Hostile struct {
	Name     string
	Distance float64
}

type Item struct {
	Name  string
	Count int
}

type Effect struct {
	Name      string
	Amplifier int
}

// Merge applies a raw game_state payload field by field, last write wins.
// Fields absent from data are left untouched.
func (g *GameState) Merge(data map[string]any) {
	if v, ok := asFloat(data["playerHealth"]); ok {
		g.Health = &v
	}
	if v, ok := asFloat(data["playerFood"]); ok {
		g.Food = &v
	}
	if v, ok := data["biome"].(string); ok {
		g.Biome = v
	}
	if v, ok := data["timeOfDay"]; ok && v != nil {
		g.TimeOfDay = formatValue(v)
	}
	if v, ok := data["dimension"].(string); ok {
		g.Dimension = v
	}
	if v, ok := data["isRaining"].(bool); ok {
		g.Raining = v
	}
	if v, ok := data["nearbyHostile"].([]any); ok {
		g.Hostiles = parseHostiles(v)
	}
	if v, ok := data["inventory"].([]any); ok {
		g.Inventory = parseItems(v)
	}
	if v, ok := data["potionEffects"].([]any); ok {
		g.Effects = parseEffects(v)
	}
}

// Clone takes a read-only copy for rendering. Merge replaces slices wholesale
// so copying the headers is enough.
func (g *GameState) Clone() *GameState {
	cp := *g
	return &cp
}

// Render produces the compact single-line context block injected ahead of
// user turns, or "" when no field is present.
func (g *GameState) Render() string {
	var parts []string
	if g.Health != nil {
		parts = append(parts, "HP:"+formatNumber(*g.Health)+"/20")
	}
	if g.Food != nil {
		parts = append(parts, "Food:"+formatNumber(*g.Food)+"/20")
	}
	if g.Biome != "" {
		parts = append(parts, "Biome:"+g.Biome)
	}
	if g.TimeOfDay != "" {
		parts = append(parts, "Time:"+g.TimeOfDay)
	}
	if g.Dimension != "" {
		parts = append(parts, "Dim:"+g.Dimension)
	}
	if g.Raining {
		parts = append(parts, "Raining")
	}
	if len(g.Hostiles) > 0 {
		var mobs []string
		for _, m := range capSlice(g.Hostiles, 3) {
			mobs = append(mobs, fmt.Sprintf("%s(%sblk)", m.Name, formatNumber(m.Distance)))
		}
		parts = append(parts, "Hostiles:["+strings.Join(mobs, ", ")+"]")
	}
	if len(g.Inventory) > 0 {
		var items []string
		for _, it := range capSlice(g.Inventory, 6) {
			items = append(items, fmt.Sprintf("%sx%d", it.Name, it.Count))
		}
		parts = append(parts, "Inv:["+strings.Join(items, ", ")+"]")
	}
	if len(g.Effects) > 0 {
		var effs []string
		for _, e := range capSlice(g.Effects, 3) {
			s := e.Name
			if e.Amplifier > 0 {
				s += " " + roman(e.Amplifier+1)
			}
			effs = append(effs, s)
		}
		parts = append(parts, "Effects:["+strings.Join(effs, ", ")+"]")
	}
	if len(parts) == 0 {
		return ""
	}
	return "[GAME STATE] " + strings.Join(parts, " | ")
}

func capSlice[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}

// roman covers the potion amplifier range; anything past V falls back to
// the plain number.
func roman(n int) string {
	switch n {
	case 1:
		return "I"
	case 2:
		return "II"
	case 3:
		return "III"
	case 4:
		return "IV"
	case 5:
		return "V"
	}
	return strconv.Itoa(n)
}

func parseHostiles(raw []any) []Hostile {
	var out []Hostile
	for _, e := range raw {
		m, ok := e.(map[string]any)
		if !ok {
			continue
		}
		h := Hostile{}
		h.Name, _ = m["name"].(string)
		h.Distance, _ = asFloat(m["distance"])
		out = append(out, h)
	}
	return out
}

func parseItems(raw []any) []Item {
	var out []Item
	for _, e := range raw {
		m, ok := e.(map[string]any)
		if !ok {
			continue
		}
		it := Item{}
		it.Name, _ = m["name"].(string)
		if c, ok := asFloat(m["count"]); ok {
			it.Count = int(c)
		}
		out = append(out, it)
	}
	return out
}

func parseEffects(raw []any) []Effect {
	var out []Effect
	for _, e := range raw {
		m, ok := e.(map[string]any)
		if !ok {
			continue
		}
		eff := Effect{}
		eff.Name, _ = m["name"].(string)
		if a, ok := asFloat(m["amplifier"]); ok {
			eff.Amplifier = int(a)
		}
		out = append(out, eff)
	}
	return out
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatValue(v any) string {
	if f, ok := asFloat(v); ok {
		return formatNumber(f)
	}
	return fmt.Sprintf("%v", v)
}
