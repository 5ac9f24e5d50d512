package ui

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/and161185/glnotes/internal/ansi"
)

// CookieAcquirer asks the user to paste the Cookie header of a signed-in
// browser session. It satisfies session.Acquirer.
type CookieAcquirer struct {
	prompt Prompter
	loader *Loader
	out    io.Writer

	mu    sync.Mutex
	asked bool
}

// NewCookieAcquirer pauses loader while prompting.
func NewCookieAcquirer(prompt Prompter, loader *Loader, out io.Writer) *CookieAcquirer {
	return &CookieAcquirer{prompt: prompt, loader: loader, out: out}
}

// Acquire prints instructions and reads the cookie.
func (c *CookieAcquirer) Acquire(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	pending := ""
	if c.loader != nil {
		pending = c.loader.Pause()
	}

	if c.asked {
		fmt.Fprintln(c.out, "Your login cookie has expired. Please reload your Notes window and copy a fresh 'Cookie' header to paste here:")
	} else {
		fmt.Fprintln(c.out, ansi.Header("Gospel Library Notes Inspector"))
		fmt.Fprintln(c.out, "We need your login token in order to access your notes.")
		for i, step := range []string{
			"Log in to https://churchofjesuschrist.org",
			"Open browser devtools",
			"Open Network inspector",
			"Go to Notes",
			`Look for one of the requests to an endpoint that starts with "v3"`,
			"Find the 'Cookie' header sent in that request",
			`Right click + "Copy Value"`,
			"Paste the value here:",
		} {
			fmt.Fprintf(c.out, "\t%d. %s\n", i+1, step)
		}
	}
	c.asked = true

	cookie, err := c.prompt.Secret(ctx, "Paste your login cookie and press Enter")
	if err != nil {
		return "", err
	}
	if pending != "" {
		c.loader.Start(pending)
	}
	return cookie, nil
}
