package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/ternarybob/gcprivacy/internal/garmin"
)

// prompter reads interactive input from stdin, re-prompting until the
// answer is usable.
type prompter struct {
	reader *bufio.Reader
}

func newPrompter() *prompter {
	return &prompter{reader: bufio.NewReader(os.Stdin)}
}

func (p *prompter) line(prompt string) string {
	fmt.Print(prompt)
	line, _ := p.reader.ReadString('\n')
	return strings.TrimSpace(line)
}

// requiredLine prompts until a non-empty answer is given.
func (p *prompter) requiredLine(prompt, errorMsg string) string {
	for {
		if answer := p.line(prompt); answer != "" {
			return answer
		}
		fmt.Println(errorMsg)
		fmt.Println()
	}
}

// passwordLine reads a password without echoing when stdin is a terminal,
// falling back to a plain read when it is not (piped input).
func (p *prompter) passwordLine(prompt string) (string, error) {
	for {
		fmt.Print(prompt)

		var answer string
		if term.IsTerminal(int(os.Stdin.Fd())) {
			raw, err := term.ReadPassword(int(os.Stdin.Fd()))
			fmt.Println()
			if err != nil {
				return "", fmt.Errorf("reading password: %w", err)
			}
			answer = strings.TrimSpace(string(raw))
		} else {
			line, err := p.reader.ReadString('\n')
			answer = strings.TrimSpace(line)
			if answer == "" && err != nil {
				return "", fmt.Errorf("reading password: %w", err)
			}
		}

		if answer != "" {
			return answer, nil
		}
		fmt.Println("Please enter a password.")
		fmt.Println()
	}
}

// privacyLevel prints the level legend and prompts until the answer parses.
func (p *prompter) privacyLevel() string {
	fmt.Println()
	fmt.Println("Privacy Levels")
	fmt.Printf("  %s (1) = %s\n", garmin.PrivacyPrivate, garmin.PrivacyPrivate.Description())
	fmt.Printf("  %s (2) = %s\n", garmin.PrivacySubscribers, garmin.PrivacySubscribers.Description())
	fmt.Printf("  %s (3) = %s\n", garmin.PrivacyGroups, garmin.PrivacyGroups.Description())
	fmt.Printf("  %s (4) = %s\n", garmin.PrivacyPublic, garmin.PrivacyPublic.Description())
	fmt.Println()
	fmt.Println(`  Choose a level by typing the name or number - e.g. "1" or "private"`)
	fmt.Println()

	for {
		answer := p.line("  Privacy level (private, subscribers, groups, or public): ")
		level, err := garmin.ParsePrivacyLevel(answer)
		if err != nil {
			fmt.Println("  Invalid privacy level.")
			fmt.Println()
			continue
		}
		fmt.Printf("  You chose a privacy level of %q\n\n", level)
		return answer
	}
}

// date prompts for a YYYY-MM-DD date, accepting blank as "no bound" and
// re-prompting until the answer parses as a real calendar date.
func (p *prompter) date(prompt string) string {
	for {
		answer := p.line(prompt)
		if answer == "" {
			return ""
		}
		if _, err := time.Parse("2006-01-02", answer); err != nil {
			fmt.Println("  Invalid date.")
			fmt.Println()
			continue
		}
		return answer
	}
}
