// Cinerank - Personalized Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package profile

import (
	"strings"
	"unicode"
)

// Lemmatizer reduces a word to its dictionary form.
type Lemmatizer interface {
	Lemmatize(word string) string
}

// IdentityLemmatizer returns words unchanged.
type IdentityLemmatizer struct{}

// Lemmatize implements Lemmatizer.
func (IdentityLemmatizer) Lemmatize(word string) string { return word }

func isSeparator(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
}

// Tokenize lower-cases text and splits it on anything that is not a
// letter, digit or underscore.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), isSeparator)
}

// IsStopWord reports whether w (lower case) is an English stop word.
func IsStopWord(w string) bool {
	_, ok := stopWords[w]
	return ok
}

var stopWords = func() map[string]struct{} {
	words := strings.Fields(`
a about above after again against ain all am an and any are aren arent as at
be because been before being below between both but by
can couldn couldnt d did didn didnt do does doesn doesnt doing don dont down during
each few for from further had hadn hadnt has hasn hasnt have haven havent having
he her here hers herself him himself his how i if in into is isn isnt it its itself
just ll m ma me mightn mightnt more most mustn mustnt my myself needn neednt no nor not now
o of off on once only or other our ours ourselves out over own re s same shan shant
she shes should shouldve shouldn shouldnt so some such t than that thatll the their theirs
them themselves then there these they this those through to too under until up ve very
was wasn wasnt we were weren werent what when where which while who whom why will with
won wont wouldn wouldnt y you youd youll youre youve your yours yourself yourselves
also among amongst another anyhow anyone anything anyway anywhere became become becomes
besides beyond could every everyone everything everywhere else elsewhere etc even ever
however hence herein hereby indeed latter least less many may meanwhile might moreover
much must neither never nevertheless nobody none noone nothing nowhere often onto
otherwise perhaps rather several since somehow someone something sometime sometimes
somewhere still thereafter thereby therefore thus together toward towards upon via
whatever whence whenever whereas wherever whether whoever whole whose within without
would yet`)
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}()
