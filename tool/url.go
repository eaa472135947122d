package tool

import "fmt"

// BuildDeepLink builds the shareable t.me start link for a file token.
func BuildDeepLink(botUsername, token string) string {
	return fmt.Sprintf("https://t.me/%s?start=%s", botUsername, token)
}
