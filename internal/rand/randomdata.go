// Copyright © 2025 CoReason, Inc.

// Package rand generates random identifiers for tests against live backends.
package rand

import (
	"math/rand"
	"sync"
	"time"
)

const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

var (
	onceSource sync.Once
	rgen       *rand.Rand
	randMutex  sync.Mutex
)

func seed() {
	src := rand.NewSource(time.Now().UnixNano())
	rgen = rand.New(src) // #nosec
}

// LetterString returns a random string picked in the [0-9]|[a-z] range,
// suitable for bucket or object names.
func LetterString(n int) string {
	onceSource.Do(seed)
	buf := make([]byte, n)
	randMutex.Lock()
	for i := range buf {
		buf[i] = alphabet[rgen.Intn(len(alphabet))]
	}
	randMutex.Unlock()
	return string(buf)
}
