package suggest

import (
	"strings"
)

var keyboardRows = []string{
	"qwertyuiop",
	"asdfghjkl",
	"zxcvbnm",
}

// keyNeighbours maps each letter to the keys at grid distance 1: left, right, above, below.
var keyNeighbours = func() map[rune][]rune {
	pos := make(map[rune][2]int)
	for r, row := range keyboardRows {
		for c, ch := range row {
			pos[ch] = [2]int{r, c}
		}
	}
	m := make(map[rune][]rune, len(pos))
	for _, row := range keyboardRows {
		for _, a := range row {
			for _, b := range "abcdefghijklmnopqrstuvwxyz" {
				pa, pb := pos[a], pos[b]
				dr, dc := pa[0]-pb[0], pa[1]-pb[1]
				if dr*dr+dc*dc == 1 {
					m[a] = append(m[a], b)
				}
			}
		}
	}
	return m
}()

// spellingSwaps are common English confusions, applied in both directions.
var spellingSwaps = [][2]string{
	{"ie", "ei"},
	{"ph", "f"},
	{"ck", "k"},
	{"ise", "ize"},
	{"isation", "ization"},
	{"yse", "yze"},
	{"our", "or"},
	{"re", "er"},
	{"ence", "ance"},
	{"ent", "ant"},
	{"ible", "able"},
	{"ce", "se"},
	{"ll", "l"},
}

// confusionVariants returns the typo and spelling-confusion rewrites of word, in a fixed
// order and without repeats. word itself is never included.
func confusionVariants(word string) []string {
	runes := []rune(word)
	seen := map[string]struct{}{word: {}}
	var out []string
	add := func(v string) {
		if _, ok := seen[v]; ok {
			return
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}

	// Adjacent transpositions: "teh" -> "the".
	for i := 0; i+1 < len(runes); i++ {
		if runes[i] == runes[i+1] {
			continue
		}
		swapped := []rune(word)
		swapped[i], swapped[i+1] = swapped[i+1], swapped[i]
		add(string(swapped))
	}

	// Doubled letters: "foxx" -> "fox", "ocasion" -> "occasion".
	for i := range runes {
		if i+1 < len(runes) && runes[i] == runes[i+1] {
			add(string(runes[:i]) + string(runes[i+1:]))
		}
		add(string(runes[:i+1]) + string(runes[i:]))
	}

	// Keyboard slips: "cst" -> "cat".
	for i, r := range runes {
		for _, n := range keyNeighbours[r] {
			add(string(runes[:i]) + string(n) + string(runes[i+1:]))
		}
	}

	for _, swap := range spellingSwaps {
		replaceEach(word, swap[0], swap[1], add)
		replaceEach(word, swap[1], swap[0], add)
	}
	return out
}

// replaceEach calls add with word after replacing one occurrence of from, for every occurrence.
func replaceEach(word, from, to string, add func(string)) {
	for start := 0; ; {
		i := strings.Index(word[start:], from)
		if i < 0 {
			return
		}
		i += start
		add(word[:i] + to + word[i+len(from):])
		start = i + 1
	}
}
