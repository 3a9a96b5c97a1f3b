package dialogue

import "strings"

// Intent is the structured classification of one user utterance.
type Intent int

const (
	IntentUnknown Intent = iota
	IntentStartBooking
	IntentCancelBooking
	IntentLookupBooking
	IntentShowMovies
)

func (i Intent) String() string {
	switch i {
	case IntentStartBooking:
		return "START_BOOKING"
	case IntentCancelBooking:
		return "CANCEL_BOOKING"
	case IntentLookupBooking:
		return "LOOKUP_BOOKING"
	case IntentShowMovies:
		return "SHOW_MOVIES"
	default:
		return "UNKNOWN"
	}
}

// Keyword classes. The deployment serves a bilingual audience, so each class
// carries both English and Korean vocabulary.
var (
	cancelWords  = []string{"cancel", "stop", "no more", "취소", "그만", "안할래", "종료", "나가기", "닫기"}
	bookingWords = []string{"book", "reserve", "booking", "reservation", "예매", "예약", "대여"}
	movieWords   = []string{"movie", "cinema", "영화"}
	bikeWords    = []string{"bike", "bicycle", "자전거", "바이크", "따릉이"}
	lookupWords  = []string{"my booking", "confirm booking", "내 예매", "예매 확인", "예약 확인", "예매 내역"}
	showWords    = []string{"showtime", "showtimes", "screening", "timetable", "상영", "시간표", "스케줄"}

	affirmWords = []string{"yes", "ok", "okay", "sure", "confirm", "네", "예", "응", "좋아", "확인", "맞아"}
	denyWords   = []string{"no", "nope", "아니", "아니요", "됐어", "안해"}
)

// ResolveIntent classifies lower-cased, trimmed text. First match wins:
// cancel over start, start over lookup, lookup over showtimes. It is a pure
// function: no session access, no gateway calls.
func ResolveIntent(text string) Intent {
	input := strings.ToLower(strings.TrimSpace(text))
	if input == "" {
		return IntentUnknown
	}

	if containsAny(input, cancelWords) && containsAny(input, bookingWords) {
		return IntentCancelBooking
	}
	if (containsAny(input, movieWords) || containsAny(input, bikeWords)) && containsAny(input, bookingWords) {
		return IntentStartBooking
	}
	if containsAny(input, lookupWords) {
		return IntentLookupBooking
	}
	if containsAny(input, showWords) {
		return IntentShowMovies
	}
	return IntentUnknown
}

// wantsBike reports whether a START_BOOKING utterance is about bikes rather
// than movie seats.
func wantsBike(text string) bool {
	return containsAny(strings.ToLower(text), bikeWords)
}

// isBareCancel reports whether the utterance is nothing but a cancel/stop
// keyword. Such a turn short-circuits to a session reset at any step.
func isBareCancel(text string) bool {
	input := strings.ToLower(strings.TrimSpace(text))
	for _, w := range cancelWords {
		if input == w {
			return true
		}
	}
	return false
}

// isAffirmative and isNegative match whole tokens, not substrings: "예매"
// contains the affirmative "예" but is not an answer to a yes/no question.
func isAffirmative(text string) bool {
	return tokenMatch(text, affirmWords)
}

func isNegative(text string) bool {
	return tokenMatch(text, denyWords)
}

func tokenMatch(text string, words []string) bool {
	tokens := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return r == ' ' || r == ',' || r == '.' || r == '!' || r == '?'
	})
	for _, tok := range tokens {
		for _, w := range words {
			if tok == w {
				return true
			}
		}
	}
	return false
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
