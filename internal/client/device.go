package client

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"strconv"
	"time"
)

// Environment captures the observable characteristics a fingerprint is
// derived from. None of them are secrets and none are unique on their own;
// the combination is a low-entropy abuse signal, never an identity.
type Environment struct {
	UserAgent           string `json:"userAgent"`
	Language            string `json:"language"`
	Platform            string `json:"platform"`
	HardwareConcurrency int    `json:"hardwareConcurrency"`
	DeviceMemory        int    `json:"deviceMemory"`
	ScreenResolution    string `json:"screenResolution"`
	ColorDepth          int    `json:"colorDepth"`
	Timezone            string `json:"timezone"`
	Canvas              string `json:"canvas"`
}

// Fingerprint hashes the environment into a short base36 string. Recomputed
// on every call; not persisted. Collisions are possible and acceptable.
func Fingerprint(env Environment) string {
	raw, err := json.Marshal(env)
	if err != nil {
		return "unknown"
	}
	h := fnv.New32a()
	_, _ = h.Write(raw)
	return strconv.FormatUint(uint64(h.Sum32()), 36)
}

// DeviceID returns the persisted random+timestamp token, creating it once
// and reusing it afterwards.
func DeviceID(store LocalStore) string {
	if id := store.Get(deviceIDKey); id != "" {
		return id
	}
	id := fmt.Sprintf("%d_%s", time.Now().UnixMilli(), randToken())
	store.Set(deviceIDKey, id)
	return id
}

// Identifier combines the persisted device id with the environment
// fingerprint. Stable across calls on the same store and environment.
func Identifier(store LocalStore, env Environment) string {
	return DeviceID(store) + "_" + Fingerprint(env)
}

func randToken() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return strconv.FormatInt(time.Now().UnixNano(), 36)
	}
	return strconv.FormatUint(binary.BigEndian.Uint64(b[:]), 36)
}
