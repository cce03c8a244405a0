package ui

import "github.com/pkg/browser"

// SystemOpener opens URLs in the user's default browser.
type SystemOpener struct{}

func (SystemOpener) Open(url string) error {
	return browser.OpenURL(url)
}
