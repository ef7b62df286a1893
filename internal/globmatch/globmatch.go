// Copyright 2026 CatalogForge
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package globmatch implements the glob engine shared by the package
// reader's file explode filter and the plugin loader's glob routing
// table: *, **, ?, and POSIX-style character classes against a path.
package globmatch

import (
	"path/filepath"
	"strings"
)

// Matches performs full glob matching with support for:
//   - * : matches any sequence of non-separator characters
//   - ** : matches any sequence of characters including separators (any depth)
//   - ? : matches any single non-separator character
//   - [abc] : matches any character in the brackets
//   - [a-z] : matches any character in the range
//   - [!abc] or [^abc] : matches any character NOT in the brackets
//
// Patterns are matched against the full path. If pattern doesn't start with
// **, it can match anywhere in the path (implicit **/ prefix for
// convenience).
func Matches(path, pattern string) bool {
	pattern = filepath.ToSlash(pattern)

	if strings.HasSuffix(pattern, "/**") {
		prefix := strings.TrimSuffix(pattern, "/**")
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
		parts := strings.Split(path, "/")
		for i := range parts {
			subpath := strings.Join(parts[i:], "/")
			if subpath == prefix || strings.HasPrefix(subpath, prefix+"/") {
				return true
			}
		}
	}

	if strings.HasPrefix(pattern, "*.") && !strings.Contains(pattern, "/") {
		ext := pattern[1:]
		return strings.HasSuffix(path, ext)
	}

	if strings.HasPrefix(pattern, "**/") {
		suffix := pattern[3:]
		if path == suffix || strings.HasSuffix(path, "/"+suffix) {
			return true
		}
		if matchPattern(path, suffix) {
			return true
		}
		parts := strings.Split(path, "/")
		for i := range parts {
			subpath := strings.Join(parts[i:], "/")
			if matchPattern(subpath, suffix) {
				return true
			}
		}
		return false
	}

	if !strings.Contains(pattern, "*") && !strings.Contains(pattern, "?") && !strings.Contains(pattern, "[") {
		return path == pattern || strings.HasSuffix(path, "/"+pattern) || strings.HasPrefix(path, pattern+"/")
	}

	if matchPattern(path, pattern) {
		return true
	}

	parts := strings.Split(path, "/")
	for i := range parts {
		subpath := strings.Join(parts[i:], "/")
		if matchPattern(subpath, pattern) {
			return true
		}
	}

	return false
}

// matchPattern performs glob pattern matching on a single path.
func matchPattern(path, pattern string) bool {
	return matchRecursive(path, pattern, 0, 0)
}

// matchRecursive is the recursive implementation of glob matching.
func matchRecursive(path, pattern string, pi, pti int) bool {
	for pi < len(path) || pti < len(pattern) {
		if pti >= len(pattern) {
			return false
		}

		if pti+1 < len(pattern) && pattern[pti] == '*' && pattern[pti+1] == '*' {
			nextPti := pti + 2
			if nextPti < len(pattern) && pattern[nextPti] == '/' {
				nextPti++
			}
			if nextPti >= len(pattern) {
				return true
			}
			for i := pi; i <= len(path); i++ {
				if matchRecursive(path, pattern, i, nextPti) {
					return true
				}
			}
			return false
		}

		if pattern[pti] == '*' {
			nextPti := pti + 1
			if nextPti >= len(pattern) {
				for i := pi; i <= len(path); i++ {
					if i == len(path) || path[i] == '/' {
						if nextPti >= len(pattern) && i == len(path) {
							return true
						}
						if nextPti < len(pattern) && matchRecursive(path, pattern, i, nextPti) {
							return true
						}
					}
				}
				if matchRecursive(path, pattern, pi, nextPti) {
					return true
				}
				return false
			}
			for i := pi; i <= len(path); i++ {
				if i > pi && path[i-1] == '/' {
					break
				}
				if matchRecursive(path, pattern, i, nextPti) {
					return true
				}
			}
			return false
		}

		if pattern[pti] == '?' {
			if pi >= len(path) || path[pi] == '/' {
				return false
			}
			pi++
			pti++
			continue
		}

		if pattern[pti] == '[' {
			if pi >= len(path) {
				return false
			}
			closeIdx := pti + 1
			if closeIdx < len(pattern) && (pattern[closeIdx] == '!' || pattern[closeIdx] == '^') {
				closeIdx++
			}
			if closeIdx < len(pattern) && pattern[closeIdx] == ']' {
				closeIdx++
			}
			for closeIdx < len(pattern) && pattern[closeIdx] != ']' {
				closeIdx++
			}
			if closeIdx >= len(pattern) {
				if path[pi] != '[' {
					return false
				}
				pi++
				pti++
				continue
			}
			classContent := pattern[pti+1 : closeIdx]
			if !matchCharClass(path[pi], classContent) {
				return false
			}
			pi++
			pti = closeIdx + 1
			continue
		}

		if pi >= len(path) {
			return false
		}
		if path[pi] != pattern[pti] {
			return false
		}
		pi++
		pti++
	}

	return pi == len(path) && pti == len(pattern)
}

// matchCharClass checks if a character matches a character class.
// Supports: [abc], [a-z], [!abc], [^abc]
func matchCharClass(c byte, class string) bool {
	if len(class) == 0 {
		return false
	}

	negated := false
	idx := 0
	if class[0] == '!' || class[0] == '^' {
		negated = true
		idx = 1
	}

	matched := false
	for idx < len(class) {
		if idx+2 < len(class) && class[idx+1] == '-' {
			low := class[idx]
			high := class[idx+2]
			if c >= low && c <= high {
				matched = true
			}
			idx += 3
			continue
		}
		if c == class[idx] {
			matched = true
		}
		idx++
	}

	if negated {
		return !matched
	}
	return matched
}

// LiteralPrefixLen returns the length of pattern's literal (non-wildcard)
// prefix, used by the plugin loader to resolve longest-literal-prefix
// match ties (spec §4.1).
func LiteralPrefixLen(pattern string) int {
	for i := 0; i < len(pattern); i++ {
		switch pattern[i] {
		case '*', '?', '[':
			return i
		}
	}
	return len(pattern)
}
