package main

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/solve3/go-solve3/common/types"
	"github.com/solve3/go-solve3/proof"
)

func parseAddress(s string) (types.Address, error) {
	if !common.IsHexAddress(s) {
		return types.Address{}, fmt.Errorf("invalid address %q", s)
	}
	return common.HexToAddress(s), nil
}

func parseCampaignID(s string) (types.CampaignID, error) {
	if s == "" {
		return types.EmptyCampaignID, nil
	}
	b, err := proof.ParseHex(s)
	if err != nil || len(b) != types.Hash32Length {
		return types.EmptyCampaignID, fmt.Errorf("invalid campaign id %q", s)
	}
	return types.CampaignID(types.BytesToHash(b)), nil
}

func parseAmount(s string) (*uint256.Int, error) {
	amount, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return amount, nil
}
