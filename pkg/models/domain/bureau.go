package domain

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownBureau = errors.New("unknown bureau")

type Bureau string

const (
	BureauEquifax    Bureau = "equifax"
	BureauExperian   Bureau = "experian"
	BureauTransUnion Bureau = "transunion"
	BureauUnknown    Bureau = "unknown"
)

// Bureaus lists the reporting agencies in display order.
var Bureaus = []Bureau{BureauEquifax, BureauExperian, BureauTransUnion}

func ParseBureau(value string) (Bureau, error) {
	switch b := Bureau(strings.ToLower(strings.TrimSpace(value))); b {
	case BureauEquifax, BureauExperian, BureauTransUnion, BureauUnknown:
		return b, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownBureau, value)
	}
}

func (b Bureau) String() string {
	return string(b)
}
