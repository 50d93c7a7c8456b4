package store

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/smileynet/contactbook/internal/contact"
)

// SkippedLine records a line Decode could not parse.
type SkippedLine struct {
	Num  int    // 1-based line number.
	Text string // Line content without the terminator.
}

// Encode writes contacts one per line in "name,phone,email" form.
func Encode(w io.Writer, contacts []contact.Contact) error {
	bw := bufio.NewWriter(w)
	for _, c := range contacts {
		if _, err := bw.WriteString(c.Line() + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Decode reads contacts line by line. Lines have no length limit and a
// trailing CR is dropped. Malformed lines are returned in skipped rather
// than failing the decode; only read errors are returned.
func Decode(r io.Reader) (contacts []contact.Contact, skipped []SkippedLine, err error) {
	br := bufio.NewReader(r)

	contacts = []contact.Contact{}
	num := 0
	for {
		raw, rerr := br.ReadString('\n')
		if rerr != nil && !errors.Is(rerr, io.EOF) {
			return nil, nil, fmt.Errorf("line %d: %w", num+1, rerr)
		}
		if raw == "" && rerr != nil {
			break
		}
		num++
		line := strings.TrimSuffix(strings.TrimSuffix(raw, "\n"), "\r")
		c, perr := contact.ParseLine(line)
		if perr != nil {
			skipped = append(skipped, SkippedLine{Num: num, Text: line})
		} else {
			contacts = append(contacts, c)
		}
		if rerr != nil {
			break
		}
	}
	return contacts, skipped, nil
}
