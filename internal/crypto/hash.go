package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Ошибки разбора сохраненного credential. Они означают проблему целостности
// данных, а не неверный пароль.
var (
	// ErrMalformedCredential indicates that the stored value was not produced by this hasher
	ErrMalformedCredential = errors.New("malformed credential")

	// ErrIncompatibleVersion indicates an argon2 version other than argon2.Version
	ErrIncompatibleVersion = errors.New("incompatible argon2 version")
)

const algorithmTag = "argon2id"

// Параметры Argon2id по умолчанию (m=19MiB, t=2, p=1)
const (
	// Argon2Memory - объем памяти в KiB
	Argon2Memory = 19 * 1024
	// Argon2Time - количество итераций (time cost)
	Argon2Time = 2
	// Argon2Threads - количество параллельных потоков
	Argon2Threads = 1
	// Argon2KeyLen - длина производного ключа в байтах
	Argon2KeyLen = 32
	// SaltSize - размер соли в байтах
	SaltSize = 16
)

// Верхние границы параметров, принимаемых из сохраненного credential.
// Значения выше считаются повреждением данных.
const (
	// maxMemory - 1 GiB в KiB
	maxMemory = 1024 * 1024
	maxTime   = 64
)

// Params describes the Argon2id cost parameters embedded in every credential.
type Params struct {
	Memory  uint32
	Time    uint32
	Threads uint8
	SaltLen uint32
	KeyLen  uint32
}

// DefaultParams returns the parameters used by HashPassword.
func DefaultParams() Params {
	return Params{
		Memory:  Argon2Memory,
		Time:    Argon2Time,
		Threads: Argon2Threads,
		SaltLen: SaltSize,
		KeyLen:  Argon2KeyLen,
	}
}

// Hasher хеширует пароли в формате PHC:
//
//	$argon2id$v=19$m=19456,t=2,p=1$<salt>$<hash>
//
// Hasher не имеет изменяемого состояния и безопасен для конкурентного использования.
type Hasher struct {
	params Params
}

// NewHasher creates a hasher with the given parameters.
// Zero-valued fields fall back to DefaultParams.
func NewHasher(p Params) *Hasher {
	def := DefaultParams()
	if p.Memory == 0 {
		p.Memory = def.Memory
	}
	if p.Time == 0 {
		p.Time = def.Time
	}
	if p.Threads == 0 {
		p.Threads = def.Threads
	}
	if p.SaltLen == 0 {
		p.SaltLen = def.SaltLen
	}
	if p.KeyLen == 0 {
		p.KeyLen = def.KeyLen
	}
	return &Hasher{params: p}
}

var defaultHasher = NewHasher(DefaultParams())

// HashPassword хеширует пароль с параметрами по умолчанию
func HashPassword(password string) (string, error) {
	return defaultHasher.Hash(password)
}

// VerifyPassword проверяет пароль против сохраненного credential
func VerifyPassword(encoded, password string) (bool, error) {
	return defaultHasher.Verify(encoded, password)
}

// GenerateSalt генерирует криптографически случайную соль указанного размера
func GenerateSalt(size uint32) ([]byte, error) {
	salt := make([]byte, size)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return salt, nil
}

// Hash derives an Argon2id hash of password with a fresh random salt and
// returns the encoded credential.
// Политика допустимых паролей (пустой, длина) проверяется в validation.
func (h *Hasher) Hash(password string) (string, error) {
	salt, err := GenerateSalt(h.params.SaltLen)
	if err != nil {
		return "", err
	}

	key := argon2.IDKey([]byte(password), salt, h.params.Time, h.params.Memory, h.params.Threads, h.params.KeyLen)

	return encode(h.params, salt, key), nil
}

// Verify re-derives the hash using the parameters and salt stored in encoded.
// A mismatch returns false with a nil error; an error is returned only when
// encoded cannot be parsed.
func (h *Hasher) Verify(encoded, password string) (bool, error) {
	p, salt, key, err := decode(encoded)
	if err != nil {
		return false, err
	}

	candidate := argon2.IDKey([]byte(password), salt, p.Time, p.Memory, p.Threads, p.KeyLen)

	return subtle.ConstantTimeCompare(key, candidate) == 1, nil
}

// NeedsRehash reports whether encoded was produced with parameters other
// than the hasher's current ones.
func (h *Hasher) NeedsRehash(encoded string) (bool, error) {
	p, _, _, err := decode(encoded)
	if err != nil {
		return false, err
	}
	return p != h.params, nil
}

func encode(p Params, salt, key []byte) string {
	return fmt.Sprintf("$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		algorithmTag,
		argon2.Version,
		p.Memory, p.Time, p.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)
}

func decode(encoded string) (Params, []byte, []byte, error) {
	var p Params

	// "", "argon2id", "v=19", "m=..,t=..,p=..", salt, hash
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" {
		return p, nil, nil, ErrMalformedCredential
	}
	if parts[1] != algorithmTag {
		return p, nil, nil, fmt.Errorf("%w: unsupported algorithm %q", ErrMalformedCredential, parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return p, nil, nil, fmt.Errorf("%w: version: %v", ErrMalformedCredential, err)
	}
	if version != argon2.Version {
		return p, nil, nil, ErrIncompatibleVersion
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Time, &p.Threads); err != nil {
		return p, nil, nil, fmt.Errorf("%w: params: %v", ErrMalformedCredential, err)
	}
	if p.Memory == 0 || p.Time == 0 || p.Threads == 0 {
		return p, nil, nil, fmt.Errorf("%w: zero cost parameter", ErrMalformedCredential)
	}
	if p.Memory > maxMemory || p.Time > maxTime {
		return p, nil, nil, fmt.Errorf("%w: cost parameter out of range (m=%d, t=%d)", ErrMalformedCredential, p.Memory, p.Time)
	}

	salt, err := base64.RawStdEncoding.Strict().DecodeString(parts[4])
	if err != nil || len(salt) == 0 {
		return p, nil, nil, fmt.Errorf("%w: salt", ErrMalformedCredential)
	}

	key, err := base64.RawStdEncoding.Strict().DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return p, nil, nil, fmt.Errorf("%w: hash", ErrMalformedCredential)
	}

	p.SaltLen = uint32(len(salt))
	p.KeyLen = uint32(len(key))

	return p, salt, key, nil
}
