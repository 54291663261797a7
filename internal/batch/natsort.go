package batch

// naturalLess orders strings with embedded numbers by numeric value and the
// rest case-insensitively, so "page2.png" sorts before "page10.png". Only
// log and progress ordering depend on it, never output contents.
func naturalLess(a, b string) bool {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if isDigit(a[i]) && isDigit(b[j]) {
			na, ni := digitRun(a, i)
			nb, nj := digitRun(b, j)
			if na != nb {
				if len(na) != len(nb) {
					return len(na) < len(nb)
				}
				return na < nb
			}
			i, j = ni, nj
			continue
		}

		ca, cb := lower(a[i]), lower(b[j])
		if ca != cb {
			return ca < cb
		}
		i++
		j++
	}
	return len(a)-i < len(b)-j
}

// digitRun returns the digit run starting at i without leading zeros, and
// the index past its end.
func digitRun(s string, i int) (string, int) {
	start := i
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	run := s[start:i]
	for len(run) > 1 && run[0] == '0' {
		run = run[1:]
	}
	return run, i
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}
