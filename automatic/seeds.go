package automatic

import (
	"bufio"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"lukechampine.com/frand"
)

const seedHeader = "# self-play seeds, one base64url 32-byte seed per game\n"

// SeedRNG returns the deterministic generator for one seeded game.
func SeedRNG(seed [32]byte) *frand.RNG {
	return frand.NewCustom(seed[:], 1024, 12)
}

// GenerateSeeds creates n random seeds, one per game.
func GenerateSeeds(n int) ([][32]byte, error) {
	seeds := make([][32]byte, n)
	for i := range seeds {
		if _, err := rand.Read(seeds[i][:]); err != nil {
			return nil, fmt.Errorf("generating seed %d: %w", i, err)
		}
	}
	return seeds, nil
}

// SaveSeeds writes seeds one per line after a comment header.
func SaveSeeds(seeds [][32]byte, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	w.WriteString(seedHeader)
	for _, s := range seeds {
		w.WriteString(base64.RawURLEncoding.EncodeToString(s[:]))
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadSeeds reads a seed file. Blank lines and # comments are skipped.
func LoadSeeds(path string) ([][32]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var seeds [][32]byte
	sc := bufio.NewScanner(f)
	for ln := 1; sc.Scan(); ln++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		decoded, err := base64.RawURLEncoding.DecodeString(line)
		if err != nil {
			return nil, fmt.Errorf("seed file line %d: %w", ln, err)
		}
		if len(decoded) != 32 {
			return nil, fmt.Errorf("seed file line %d: %d bytes, want 32", ln, len(decoded))
		}
		var s [32]byte
		copy(s[:], decoded)
		seeds = append(seeds, s)
	}
	return seeds, sc.Err()
}
