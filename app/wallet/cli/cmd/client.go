package cmd

import (
	"fmt"
	"net/http"
	"time"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/go-resty/resty/v2"
)

// nodeError is the error document a node responds with.
type nodeError struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

type submitted struct {
	Message string `json:"message"`
	Index   uint64 `json:"index"`
}

type mined struct {
	Message       string        `json:"message"`
	Index         uint64        `json:"index"`
	PrevBlockHash string        `json:"hash_of_previous_block"`
	Nonce         uint64        `json:"nonce"`
	Transactions  []database.Tx `json:"transaction"`
}

type chain struct {
	Chain  []database.Block `json:"chain"`
	Length uint64           `json:"length"`
}

// client talks to the public api of a node.
type client struct {
	rc *resty.Client
}

func newClient(baseURL string) client {
	rc := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetTimeout(2 * time.Minute).
		SetError(&nodeError{})

	return client{rc: rc}
}

func (c client) submit(tx database.NewTx) (submitted, error) {
	var result submitted
	resp, err := c.rc.R().
		SetBody(tx).
		SetResult(&result).
		Post("/v1/transaction/new")
	if err := check(resp, err, http.StatusCreated); err != nil {
		return submitted{}, err
	}

	return result, nil
}

func (c client) mine() (mined, error) {
	var result mined
	resp, err := c.rc.R().
		SetResult(&result).
		Get("/v1/mine")
	if err := check(resp, err, http.StatusOK); err != nil {
		return mined{}, err
	}

	return result, nil
}

func (c client) chain() (chain, error) {
	var result chain
	resp, err := c.rc.R().
		SetResult(&result).
		Get("/v1/blockchain")
	if err := check(resp, err, http.StatusOK); err != nil {
		return chain{}, err
	}

	return result, nil
}

func check(resp *resty.Response, err error, expStatus int) error {
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}

	if resp.StatusCode() == expStatus {
		return nil
	}

	if ne, ok := resp.Error().(*nodeError); ok && ne.Error != "" {
		if len(ne.Fields) > 0 {
			return fmt.Errorf("status %d: %s %v", resp.StatusCode(), ne.Error, ne.Fields)
		}
		return fmt.Errorf("status %d: %s", resp.StatusCode(), ne.Error)
	}

	return fmt.Errorf("status %d: %s", resp.StatusCode(), resp.String())
}
