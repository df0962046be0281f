package service

import (
	"fmt"
	"strings"
)

// ParseCheckTargets parses the sweep-target configuration string. Entries are
// comma separated; each entry is colon-separated identifiers in the order
// table, key column, ciphertext column, then optionally checksum column and
// format column. An empty string yields no targets.
func ParseCheckTargets(spec string) ([]CheckTarget, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, nil
	}

	var targets []CheckTarget
	for _, entry := range strings.Split(spec, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		parts := strings.Split(entry, ":")
		if len(parts) < 3 || len(parts) > 5 {
			return nil, fmt.Errorf("invalid check target %q: want table:key_col:cipher_col[:checksum_col[:format_col]]", entry)
		}

		target := CheckTarget{
			Table:            strings.TrimSpace(parts[0]),
			KeyColumn:        strings.TrimSpace(parts[1]),
			CiphertextColumn: strings.TrimSpace(parts[2]),
		}
		if len(parts) > 3 {
			target.ChecksumColumn = strings.TrimSpace(parts[3])
		}
		if len(parts) > 4 {
			target.FormatColumn = strings.TrimSpace(parts[4])
		}

		for _, ident := range []string{target.Table, target.KeyColumn, target.CiphertextColumn} {
			if err := validIdentifier(ident); err != nil {
				return nil, fmt.Errorf("invalid check target %q: %w", entry, err)
			}
		}
		targets = append(targets, target)
	}
	return targets, nil
}
