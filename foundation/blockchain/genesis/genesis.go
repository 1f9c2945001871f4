// Package genesis maintains access to the genesis settings.
package genesis

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Default values for the genesis settings.
const (
	DefaultPreImage     = "genesis_block"
	DefaultDifficulty   = "0000"
	DefaultMiningReward = 1
	DefaultRewardSender = "0"
)

// Genesis represents the genesis file.
type Genesis struct {
	Date         time.Time `json:"date"`
	PreImage     string    `json:"pre_image"`     // The value hashed to produce the genesis block's previous hash.
	Difficulty   string    `json:"difficulty"`    // Hex prefix a block's proof of work hash must start with.
	MiningReward float64   `json:"mining_reward"` // Reward for mining a block.
	RewardSender string    `json:"reward_sender"` // Sender recorded on the mining reward transaction.
}

// Default returns the genesis settings the ledger uses when no genesis
// file is provided.
func Default() Genesis {
	return Genesis{
		PreImage:     DefaultPreImage,
		Difficulty:   DefaultDifficulty,
		MiningReward: DefaultMiningReward,
		RewardSender: DefaultRewardSender,
	}
}

// =============================================================================

// Load opens and consumes the genesis file. Fields missing from the file
// keep their default values.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, fmt.Errorf("reading genesis file: %w", err)
	}

	genesis := Default()
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, fmt.Errorf("decoding genesis file: %w", err)
	}

	return genesis, nil
}
