// Package ledgerfile is a cheap structural probe for uploaded journal
// files. The analysis core never reads the ledger itself, so this is the
// only gate between an arbitrary upload and a subprocess invocation.
package ledgerfile

import (
	"bufio"
	"io"
	"regexp"
	"strings"
)

// Journal grammar, loosely: transaction heads start with a date, postings
// are indented body lines, everything else interesting is a directive.
var (
	headRe      = regexp.MustCompile(`^\d{4}[-/.]\d{1,2}[-/.]\d{1,2}([ \t=*!]|$)`)
	postingRe   = regexp.MustCompile(`^[ \t]+\S`)
	directiveRe = regexp.MustCompile(`^(account|commodity|include|alias|payee|tag|year|decimal-mark|P)\b`)
)

// Stats summarizes one probe pass over a candidate journal.
type Stats struct {
	Lines        int // non-blank, non-comment lines
	Transactions int // date-led head lines
	Postings     int // indented body lines
	Directives   int
}

// Probe scans r line by line. It never fails; unreadable input produces
// empty stats.
func Probe(r io.Reader) Stats {
	var st Stats
	s := bufio.NewScanner(r)
	for s.Scan() {
		line := s.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, ";") || strings.HasPrefix(trimmed, "#") {
			continue
		}
		st.Lines++
		switch {
		case headRe.MatchString(line):
			st.Transactions++
		case directiveRe.MatchString(line):
			st.Directives++
		case postingRe.MatchString(line):
			st.Postings++
		}
	}
	return st
}

// LooksLikeJournal reports whether the probed content plausibly is a
// ledger/hledger journal: transaction heads with posting bodies, or a file
// of nothing but directives (a chart-of-accounts include, say).
func (s Stats) LooksLikeJournal() bool {
	if s.Lines == 0 {
		return false
	}
	if s.Transactions > 0 && s.Postings > 0 {
		return true
	}
	return s.Directives > 0 && s.Transactions+s.Postings+s.Directives == s.Lines
}
