package words

import "math/rand/v2"

// fallbackWords is used when the word provider fails. Entries whose length
// does not match the requested length are never chosen.
var fallbackWords = map[int][]string{
	3: {"CAT", "DOG", "BAT", "BAG", "BAR"},
	4: {"FROG", "DUCK", "BEAR", "BALL"},
	5: {"APPLE", "TIGER", "HONEY"},
	6: {"BANANA", "ORANGE", "MONKEY"},
	7: {"CHERRY", "ELEPHANT", "GIRAFFE"},
}

// Fallback picks uniformly among the built-in words of the given length.
// ok is false when the table has nothing of that length.
func Fallback(length int, rng *rand.Rand) (word string, ok bool) {
	var eligible []string
	for _, w := range fallbackWords[length] {
		if len(w) == length {
			eligible = append(eligible, w)
		}
	}
	if len(eligible) == 0 {
		return "", false
	}
	return eligible[rng.IntN(len(eligible))], true
}
