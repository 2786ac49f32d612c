package keys

import (
	"strconv"
	"strings"
)

// RoundSeed builds the seed string for one round resolution:
// "<room>:<round>:<unix millis>". The timestamp keeps repeated rounds of
// one room from sharing a stream.
func RoundSeed(roomID string, roundNum int, unixMillis int64) string {
	return strings.Join([]string{roomID, strconv.Itoa(roundNum), strconv.FormatInt(unixMillis, 10)}, ":")
}

// NormalizeRoomID trims and upper-cases a room id as typed by a player.
func NormalizeRoomID(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
