// Package nameservice reads a folder of ECDSA key files and creates a name
// lookup for the accounts they belong to. A key file named kennedy.ecdsa
// gives its account the name kennedy.
package nameservice

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ethereum/go-ethereum/crypto"
)

// KeyExtension is the file extension of the key files.
const KeyExtension = ".ecdsa"

// NameService maintains a map of accounts for name lookup.
type NameService struct {
	accounts map[database.AccountID]string
	keys     map[string]string
}

// New constructs a name service with accounts from the specified folder.
// A folder that does not exist yields an empty name service.
func New(root string) (*NameService, error) {
	ns := NameService{
		accounts: make(map[database.AccountID]string),
		keys:     make(map[string]string),
	}

	if root == "" {
		return &ns, nil
	}

	if _, err := os.Stat(root); errors.Is(err, fs.ErrNotExist) {
		return &ns, nil
	}

	fn := func(fileName string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("walkdir failure: %w", err)
		}

		if d.IsDir() || filepath.Ext(fileName) != KeyExtension {
			return nil
		}

		privateKey, err := crypto.LoadECDSA(fileName)
		if err != nil {
			return fmt.Errorf("loading %s: %w", fileName, err)
		}

		name := strings.TrimSuffix(filepath.Base(fileName), KeyExtension)
		ns.accounts[database.PublicKeyToAccountID(privateKey.PublicKey)] = name
		ns.keys[name] = fileName

		return nil
	}

	if err := filepath.WalkDir(root, fn); err != nil {
		return nil, fmt.Errorf("walking directory: %w", err)
	}

	return &ns, nil
}

// Lookup returns the name for the specified account. The account itself is
// returned when it has no name.
func (ns *NameService) Lookup(account database.AccountID) string {
	name, exists := ns.accounts[account]
	if !exists {
		return string(account)
	}
	return name
}

// Resolve returns the account for the specified name. A value that isn't a
// known name is returned as is, so an account can be passed where a name is
// expected.
func (ns *NameService) Resolve(name string) database.AccountID {
	for account, n := range ns.accounts {
		if n == name {
			return account
		}
	}
	return database.AccountID(name)
}

// PrivateKey loads the private key for the specified name.
func (ns *NameService) PrivateKey(name string) (*ecdsa.PrivateKey, error) {
	path, exists := ns.keys[name]
	if !exists {
		return nil, fmt.Errorf("name %q has no key file", name)
	}
	return crypto.LoadECDSA(path)
}

// Copy returns a copy of the map of names and accounts.
func (ns *NameService) Copy() map[database.AccountID]string {
	cpy := make(map[database.AccountID]string, len(ns.accounts))
	for account, name := range ns.accounts {
		cpy[account] = name
	}
	return cpy
}
