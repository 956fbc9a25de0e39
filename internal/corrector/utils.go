package corrector

// forEachEdit1 calls visit for every string one deletion, transposition,
// substitution or insertion away from word, in that order. Strings may
// repeat. It stops early and returns false once visit returns false.
func forEachEdit1(word []rune, alphabet []rune, visit func(string) bool) bool {
	n := len(word)
	buf := make([]rune, 0, n+1)

	for i := 0; i < n; i++ {
		buf = append(buf[:0], word[:i]...)
		buf = append(buf, word[i+1:]...)
		if !visit(string(buf)) {
			return false
		}
	}

	for i := 0; i+1 < n; i++ {
		buf = append(buf[:0], word...)
		buf[i], buf[i+1] = buf[i+1], buf[i]
		if !visit(string(buf)) {
			return false
		}
	}

	for i := 0; i < n; i++ {
		buf = append(buf[:0], word...)
		for _, c := range alphabet {
			buf[i] = c
			if !visit(string(buf)) {
				return false
			}
		}
	}

	for i := 0; i <= n; i++ {
		for _, c := range alphabet {
			buf = append(buf[:0], word[:i]...)
			buf = append(buf, c)
			buf = append(buf, word[i:]...)
			if !visit(string(buf)) {
				return false
			}
		}
	}
	return true
}

// distinct wraps visit so that it only sees each string once.
func distinct(seen map[string]struct{}, visit func(string) bool) func(string) bool {
	return func(s string) bool {
		if _, ok := seen[s]; ok {
			return true
		}
		seen[s] = struct{}{}
		return visit(s)
	}
}

// maxEdits1 is the number of strings forEachEdit1 visits for a word of n
// runes over an alphabet of size a.
func maxEdits1(n, a int) int {
	if n == 0 {
		return a
	}
	return n + (n - 1) + n*a + (n+1)*a
}
