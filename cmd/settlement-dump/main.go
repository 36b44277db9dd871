// Command settlement-dump decodes a storage dump produced by the host (a
// msgpack map of account id to key/value pairs) and prints the recognized
// settlement state: statuses, configs and co-located asset entries.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/tailabs/settlement-contracts/common"
)

func main() {
	dumpPath := flag.String("dump", "", "Path of the storage dump file")
	account := flag.String("account", "", "Print only this account (optional)")

	flag.Parse()

	if *dumpPath == "" {
		log.Fatal("missing dump file path")
	}

	if err := printDump(*dumpPath, common.AccountID(*account)); err != nil {
		log.Fatal(err)
	}
}

func printDump(path string, only common.AccountID) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read dump: %w", err)
	}

	var accounts map[common.AccountID]map[string][]byte
	if err := msgpack.Unmarshal(raw, &accounts); err != nil {
		return fmt.Errorf("decode dump: %w", err)
	}

	ids := make([]common.AccountID, 0, len(accounts))
	for id := range accounts {
		if only != "" && id != only {
			continue
		}
		ids = append(ids, id)
	}
	if only != "" && len(ids) == 0 {
		return fmt.Errorf("account %q not present in dump", only)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		fmt.Printf("account %s\n", id)

		keys := make([]string, 0, len(accounts[id]))
		for key := range accounts[id] {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		for _, key := range keys {
			fmt.Printf("  %-24s %s\n", key, renderValue(key, accounts[id][key]))
		}
	}

	return nil
}

// renderValue decodes a stored value by its key shape: asset entries under
// an account-id key, everything else as a generic msgpack value.
func renderValue(key string, data []byte) string {
	if common.AccountID(key).Valid() {
		var entry common.Asset
		if err := msgpack.Unmarshal(data, &entry); err == nil {
			if entry.Lock == nil {
				return fmt.Sprintf("asset entry: %d units, unlocked", entry.Units)
			}
			return fmt.Sprintf("asset entry: %d units, %s lock held by %s",
				entry.Units, entry.Lock.Type, entry.Lock.Privilege)
		}
	}

	var generic interface{}
	if err := msgpack.Unmarshal(data, &generic); err != nil {
		return fmt.Sprintf("%d undecodable bytes", len(data))
	}
	return fmt.Sprintf("%v", generic)
}
