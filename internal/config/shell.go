package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/abiosoft/ishell/v2"
)

// Maintenance implements the maintenance shell commands over a Store.
type Maintenance struct {
	Store *Store

	// Changed is set once any command modified the store.
	Changed bool
}

// Show writes the effective configuration as YAML.
func (m *Maintenance) Show(w io.Writer) error {
	c, err := Load(m.Store)
	if err != nil {
		fmt.Fprintf(w, "# warning: %v\n", err)
	}
	b, err := c.YAML()
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// Set stores key=value.
func (m *Maintenance) Set(key, value string) error {
	if err := m.Store.Set(key, strings.TrimSpace(value)); err != nil {
		return err
	}
	m.Changed = true
	return nil
}

// Erase clears all stored preferences.
func (m *Maintenance) Erase() error {
	if err := m.Store.Clear(); err != nil {
		return err
	}
	m.Changed = true
	return nil
}

// NewShell builds the interactive maintenance shell. Run blocks until the
// operator types exit.
func NewShell(m *Maintenance) *ishell.Shell {
	shell := ishell.New()
	shell.SetPrompt("scanner> ")
	shell.Println("Maintenance mode. Type help for commands, exit to resume scanning.")

	shell.AddCmd(&ishell.Cmd{
		Name: "show",
		Help: "show the effective configuration",
		Func: func(c *ishell.Context) {
			var b strings.Builder
			if err := m.Show(&b); err != nil {
				c.Err(err)
				return
			}
			c.Print(b.String())
		},
	})

	shell.AddCmd(&ishell.Cmd{
		Name:      "set",
		Help:      "set <ssid|password|serverUrl> [value]",
		Completer: func([]string) []string { return Keys },
		Func: func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Println("usage: set <key> [value]")
				return
			}
			key := c.Args[0]
			var value string
			switch {
			case len(c.Args) >= 2:
				value = strings.Join(c.Args[1:], " ")
			case key == KeyPassword:
				c.Print("Password: ")
				value = c.ReadPassword()
			default:
				c.ShowPrompt(false)
				defer c.ShowPrompt(true)
				c.Printf("%s: ", key)
				value = c.ReadLine()
			}
			if err := m.Set(key, value); err != nil {
				c.Err(err)
				return
			}
			c.Printf("%s saved\n", key)
		},
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "erase",
		Help: "erase all stored preferences",
		Func: func(c *ishell.Context) {
			c.Print("Erase all preferences? (y/N) ")
			if !strings.EqualFold(strings.TrimSpace(c.ReadLine()), "y") {
				c.Println("aborted")
				return
			}
			if err := m.Erase(); err != nil {
				c.Err(err)
				return
			}
			c.Println("preferences erased")
		},
	})

	return shell
}
