package utils

import (
	"math/rand"
	"strconv"
	"strings"
	"time"
)

const charset = "abcdefghijklmnopqrstuvwxyz0123456789"

var randSource = rand.NewSource(time.Now().UnixNano())
var randGenerator = rand.New(randSource)

// GenerateID returns a time-ordered record id: base36 millis plus a random
// suffix. Not collision-free under concurrent writers; the store only ever
// has one.
func GenerateID() string {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 36)
	return ts + randomString(8)
}

// GenerateBookingReference returns a human-shareable reference of the form
// BK<timestamp36><random4>, uppercased.
func GenerateBookingReference() string {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 36)
	return "BK" + strings.ToUpper(ts+randomString(4))
}

func randomString(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[randGenerator.Intn(len(charset))]
	}
	return string(b)
}
