package manifest

import (
	"errors"
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// ErrIncompatible is returned when a definition's engine constraint
// excludes the running version.
var ErrIncompatible = errors.New("incompatible engine version")

// CheckEngine reports whether version satisfies constraint. An empty
// constraint accepts every version. Development builds whose version is not
// a semantic version are accepted too.
func CheckEngine(constraint, version string) error {
	if constraint == "" {
		return nil
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("parsing engine constraint %q: %w", constraint, err)
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return nil
	}
	if ok, errs := c.Validate(v); !ok {
		msg := ""
		if len(errs) > 0 {
			msg = ": " + errs[0].Error()
		}
		return fmt.Errorf("%w: %s does not satisfy %s%s", ErrIncompatible, version, constraint, msg)
	}
	return nil
}
