package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
)

const argon2AlgorithmID = "argon2id"

// Argon2Config holds argon2id cost parameters. Memory is in KiB.
type Argon2Config struct {
	Memory      uint32
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultArgon2Config follows the RFC 9106 second recommended option.
func DefaultArgon2Config() Argon2Config {
	return Argon2Config{
		Memory:      64 * 1024,
		Time:        3,
		Parallelism: 4,
		SaltLength:  16,
		KeyLength:   32,
	}
}

// Argon2id hashes into "$argon2id$v=19$m=...,t=...,p=...$salt$hash".
type Argon2id struct {
	cfg Argon2Config
}

func NewArgon2id(cfg Argon2Config) (*Argon2id, error) {
	switch {
	case cfg.Memory < 8*1024:
		return nil, errors.New("argon2 memory must be >= 8192 KiB")
	case cfg.Time < 1:
		return nil, errors.New("argon2 time must be >= 1")
	case cfg.Parallelism < 1:
		return nil, errors.New("argon2 parallelism must be >= 1")
	case cfg.SaltLength < 16:
		return nil, errors.New("argon2 salt length must be >= 16")
	case cfg.KeyLength < 16:
		return nil, errors.New("argon2 key length must be >= 16")
	}
	return &Argon2id{cfg: cfg}, nil
}

func (a *Argon2id) Hash(password string) (string, error) {
	salt := make([]byte, a.cfg.SaltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", err
	}

	key := argon2.IDKey([]byte(password), salt, a.cfg.Time, a.cfg.Memory, a.cfg.Parallelism, a.cfg.KeyLength)

	return fmt.Sprintf("$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2AlgorithmID, argon2.Version,
		a.cfg.Memory, a.cfg.Time, a.cfg.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

func (a *Argon2id) Compare(encodedHash, password string) error {
	return compare(encodedHash, password)
}

func compareArgon2id(encodedHash, password string) error {
	p, err := parseArgon2id(encodedHash)
	if err != nil {
		return err
	}

	key := argon2.IDKey([]byte(password), p.salt, p.cfg.Time, p.cfg.Memory, p.cfg.Parallelism, uint32(len(p.key)))
	if subtle.ConstantTimeCompare(key, p.key) != 1 {
		return ErrMismatch
	}
	return nil
}

type argon2Hash struct {
	cfg  Argon2Config
	salt []byte
	key  []byte
}

func parseArgon2id(encoded string) (*argon2Hash, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != argon2AlgorithmID {
		return nil, errors.New("invalid argon2id hash format")
	}

	if parts[2] != "v="+strconv.Itoa(argon2.Version) {
		return nil, errors.New("unsupported argon2 version")
	}

	var h argon2Hash
	for _, kv := range strings.Split(parts[3], ",") {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, errors.New("invalid argon2 parameter")
		}
		n, err := strconv.ParseUint(value, 10, 32)
		if err != nil || n == 0 {
			return nil, fmt.Errorf("invalid argon2 parameter %q", name)
		}
		switch name {
		case "m":
			h.cfg.Memory = uint32(n)
		case "t":
			h.cfg.Time = uint32(n)
		case "p":
			if n > 255 {
				return nil, errors.New("invalid argon2 parallelism")
			}
			h.cfg.Parallelism = uint8(n)
		default:
			return nil, fmt.Errorf("unknown argon2 parameter %q", name)
		}
	}
	if h.cfg.Memory == 0 || h.cfg.Time == 0 || h.cfg.Parallelism == 0 {
		return nil, errors.New("missing argon2 parameters")
	}

	var err error
	if h.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return nil, errors.New("invalid argon2 salt encoding")
	}
	if h.key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil || len(h.key) == 0 {
		return nil, errors.New("invalid argon2 hash encoding")
	}
	return &h, nil
}
