package ids

import (
	"strconv"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Record prefixes. Stored ids keep the "<prefix>-<millis>" head so older
// data files stay readable; the random tail keeps ids unique when two
// records are created in the same millisecond.
const (
	PrefixDonor        = "donor"
	PrefixHospital     = "hosp"
	PrefixBloodBank    = "bb"
	PrefixDrive        = "drive"
	PrefixRegistration = "reg"
	PrefixBloodRequest = "request"
)

var (
	SuffixSize     = 6
	suffixAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// New returns "<prefix>-<unix millis>-<random suffix>".
func New(prefix string, now time.Time) string {
	return prefix + "-" + strconv.FormatInt(now.UnixMilli(), 10) + "-" + gonanoid.MustGenerate(suffixAlphabet, SuffixSize)
}
