package version

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"
)

type release struct {
	numbers    [3]int
	prerelease string
}

func parseRelease(s string) (release, error) {
	var r release

	s = strings.TrimPrefix(strings.TrimSpace(s), "v")
	s, r.prerelease, _ = strings.Cut(s, "-")
	s, _, _ = strings.Cut(s, "+")

	parts := strings.Split(s, ".")
	if len(parts) > 3 {
		return r, fmt.Errorf("version %q: too many components", s)
	}

	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return r, fmt.Errorf("version %q: invalid component %q", s, part)
		}
		r.numbers[i] = n
	}

	return r, nil
}

// Compare orders two release tags such as "v1.2.0" or "1.3.0-rc.1".
// Missing components count as zero and a prerelease sorts before its release.
// Returns 1 if a > b, -1 if a < b, and 0 if equal.
func Compare(a, b string) (int, error) {
	ra, err := parseRelease(a)
	if err != nil {
		return 0, err
	}

	rb, err := parseRelease(b)
	if err != nil {
		return 0, err
	}

	for i := range ra.numbers {
		if c := cmp.Compare(ra.numbers[i], rb.numbers[i]); c != 0 {
			return c, nil
		}
	}

	switch {
	case ra.prerelease == rb.prerelease:
		return 0, nil
	case ra.prerelease == "":
		return 1, nil
	case rb.prerelease == "":
		return -1, nil
	default:
		return strings.Compare(ra.prerelease, rb.prerelease), nil
	}
}
