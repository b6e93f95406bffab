// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package segment

import (
	"sort"
	"strings"
)

// Stop words filtered out before keyword counting. Keep this list short;
// the length filter below removes most function words anyway.
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "be": true, "is": true, "are": true,
	"was": true, "were": true, "to": true, "of": true, "and": true, "in": true,
	"that": true, "have": true, "it": true, "for": true, "not": true, "on": true,
	"with": true, "as": true, "you": true, "do": true, "at": true, "this": true,
	"but": true, "by": true, "from": true, "they": true, "we": true, "there": true,
	"their": true, "what": true, "about": true, "which": true, "when": true,
	"would": true, "could": true, "should": true, "these": true, "those": true,
	"going": true, "really": true, "actually": true, "basically": true,
	"something": true, "things": true,
}

// ExtractKeywords returns up to maxKeywords frequent content words from the
// text. Words are lowercased, trimmed of punctuation, filtered against the
// stop word list and must be longer than four characters. Ties in frequency
// break alphabetically so the result is deterministic.
func ExtractKeywords(text string, maxKeywords int) []string {
	if maxKeywords <= 0 {
		return nil
	}

	counts := map[string]int{}
	for _, word := range strings.Fields(text) {
		cleaned := strings.ToLower(strings.Trim(word, ".,!?;:'\"-()[]{}"))
		if len(cleaned) <= 4 || stopWords[cleaned] {
			continue
		}
		counts[cleaned]++
	}

	if len(counts) == 0 {
		return nil
	}

	keywords := make([]string, 0, len(counts))
	for word := range counts {
		keywords = append(keywords, word)
	}
	sort.Slice(keywords, func(i, j int) bool {
		if counts[keywords[i]] != counts[keywords[j]] {
			return counts[keywords[i]] > counts[keywords[j]]
		}
		return keywords[i] < keywords[j]
	})

	if len(keywords) > maxKeywords {
		keywords = keywords[:maxKeywords]
	}
	return keywords
}

// SharedKeywords returns the keywords present in both lists, preserving the
// order of the first list.
func SharedKeywords(a, b []string) []string {
	inB := make(map[string]bool, len(b))
	for _, word := range b {
		inB[word] = true
	}

	var shared []string
	for _, word := range a {
		if inB[word] {
			shared = append(shared, word)
		}
	}
	return shared
}
