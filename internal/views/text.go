package views

import "strings"

// Title joins season labels the way the home page heading shows them.
func Title(seasons []string) string {
	if len(seasons) == 0 {
		return "NBA Team Shot Chart"
	}
	return "NBA Team Shot Chart: " + strings.Join(seasons, " vs. ")
}

func seasonList(seasons []string) string {
	return strings.Join(seasons, " and ")
}
