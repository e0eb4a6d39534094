package types

import (
	"bytes"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/crosslend/x/shared/asset"
)

// nativeTokenIndicator marks a token address that carries a host denom.
const nativeTokenIndicator = 0x01

// Bytes32 left-pads a host address to the 32-byte wire form.
func Bytes32(addr sdk.AccAddress) [32]byte {
	var out [32]byte
	if len(addr) >= 32 {
		copy(out[:], addr[len(addr)-32:])
		return out
	}
	copy(out[32-len(addr):], addr)
	return out
}

// AccAddressFromBytes32 recovers a host address from its 32-byte wire form.
// Addresses with twelve leading zero bytes are 20-byte accounts.
func AccAddressFromBytes32(b [32]byte) sdk.AccAddress {
	if bytes.Equal(b[:12], make([]byte, 12)) {
		return sdk.AccAddress(append([]byte{}, b[12:]...))
	}
	return sdk.AccAddress(append([]byte{}, b[:]...))
}

// TokenAddress encodes an asset as the token address of a transfer.
// Native denoms are right-aligned behind the 0x01 indicator byte.
func TokenAddress(info asset.Info) ([32]byte, error) {
	var out [32]byte
	if err := info.Validate(); err != nil {
		return out, err
	}
	if info.IsNative() {
		if len(info.Denom) > 31 {
			return out, ErrInvalidTransfer.Wrapf("denom %q longer than 31 bytes", info.Denom)
		}
		copy(out[32-len(info.Denom):], info.Denom)
		out[0] = nativeTokenIndicator
		return out, nil
	}
	addr, err := sdk.AccAddressFromBech32(info.Contract)
	if err != nil {
		return out, err
	}
	out = Bytes32(addr)
	if out[0] == nativeTokenIndicator {
		return out, ErrInvalidTransfer.Wrapf("token %s collides with the native indicator", info.Contract)
	}
	return out, nil
}

// AssetInfoFromTokenAddress is the inverse of TokenAddress.
func AssetInfoFromTokenAddress(b [32]byte) (asset.Info, error) {
	var info asset.Info
	if b[0] == nativeTokenIndicator {
		denom := make([]byte, 0, 31)
		for _, c := range b[1:] {
			if c != 0 {
				denom = append(denom, c)
			}
		}
		info = asset.NativeInfo(string(denom))
	} else {
		info = asset.TokenInfo(AccAddressFromBytes32(b).String())
	}
	if err := info.Validate(); err != nil {
		return asset.Info{}, ErrInvalidTransfer.Wrapf("token address %x: %s", b, err)
	}
	return info, nil
}
