package txclient

import "context"

// PalletIndices names the pallets and calls §4.9 submits against. A
// runtime's actual indices come from its metadata; the orchestrator
// resolves them once per chain and passes them in here rather than this
// package assuming any fixed layout.
type PalletIndices struct {
	Sudo                  CallIndex
	SudoSudo              CallIndex
	SudoUncheckedWeight   CallIndex
	Utility               CallIndex
	UtilityBatch          CallIndex
	ParasSudoWrapper      CallIndex
	ScheduleParaInitialize CallIndex
	ValidatorManager      CallIndex
	RegisterValidators    CallIndex
	DeregisterValidators  CallIndex
	System                CallIndex
	SetCodeWithoutChecks  CallIndex
	Hrmp                  CallIndex
	ForceOpenHrmpChannel  CallIndex
}

// ParaGenesisKind mirrors ParaLifecycle's `ParaKind` argument to
// `sudo_schedule_para_initialize` — whether the new para is a
// parachain (collator-produced blocks from genesis) or a parathread.
type ParaGenesisKind bool

const (
	ParaKindParathread ParaGenesisKind = false
	ParaKindParachain  ParaGenesisKind = true
)

func encodeParaGenesisArgs(paraID uint32, genesisHead, validationCode []byte, kind ParaGenesisKind) []byte {
	e := newEncoder()
	e.putU32(paraID)
	e.putBytes(genesisHead)
	e.putBytes(validationCode)
	if kind {
		e.putU8(1)
	} else {
		e.putU8(0)
	}
	return e.bytes()
}

// RegisterParachain submits `Sudo.sudo(ParasSudoWrapper.
// sudo_schedule_para_initialize(id, {genesis_head, validation_code,
// para_kind}))` and waits for finality (§4.9).
func (c *Client) RegisterParachain(ctx context.Context, idx PalletIndices, payload SigningPayload, paraID uint32, genesisHead, validationCode []byte) (string, error) {
	inner := Call{Index: idx.ScheduleParaInitialize, Args: encodeParaGenesisArgs(paraID, genesisHead, validationCode, ParaKindParachain)}
	wrapped := WrapSudo(idx.Sudo, idx.SudoSudo, inner)
	extrinsic, err := BuildSignedExtrinsic(wrapped, c.Signer, payload)
	if err != nil {
		return "", err
	}
	return c.SubmitAndWatch(ctx, extrinsic)
}

func encodeValidatorIDs(ids [][]byte) []byte {
	e := newEncoder()
	e.putCompact(uint64(len(ids)))
	for _, id := range ids {
		e.putFixed(id)
	}
	return e.bytes()
}

// RegisterValidators submits `Sudo.sudo(ValidatorManager.
// register_validators([ids]))`.
func (c *Client) RegisterValidators(ctx context.Context, idx PalletIndices, payload SigningPayload, validatorIDs [][]byte) (string, error) {
	inner := Call{Index: idx.RegisterValidators, Args: encodeValidatorIDs(validatorIDs)}
	wrapped := WrapSudo(idx.Sudo, idx.SudoSudo, inner)
	extrinsic, err := BuildSignedExtrinsic(wrapped, c.Signer, payload)
	if err != nil {
		return "", err
	}
	return c.SubmitAndWatch(ctx, extrinsic)
}

// DeregisterValidators submits `Sudo.sudo(ValidatorManager.
// deregister_validators([ids]))`, the mirror of RegisterValidators.
func (c *Client) DeregisterValidators(ctx context.Context, idx PalletIndices, payload SigningPayload, validatorIDs [][]byte) (string, error) {
	inner := Call{Index: idx.DeregisterValidators, Args: encodeValidatorIDs(validatorIDs)}
	wrapped := WrapSudo(idx.Sudo, idx.SudoSudo, inner)
	extrinsic, err := BuildSignedExtrinsic(wrapped, c.Signer, payload)
	if err != nil {
		return "", err
	}
	return c.SubmitAndWatch(ctx, extrinsic)
}

// UpgradeRuntime submits `Sudo.sudo_unchecked_weight(System.
// set_code_without_checks(wasm), {ref_time: 1, proof_size: 1})` (§4.9 —
// the minimal weight is intentional: a local testnet doesn't meter the
// call against real benchmarked weights).
func (c *Client) UpgradeRuntime(ctx context.Context, idx PalletIndices, payload SigningPayload, wasm []byte) (string, error) {
	inner := Call{Index: idx.SetCodeWithoutChecks, Args: func() []byte { e := newEncoder(); e.putBytes(wasm); return e.bytes() }()}
	wrapped := WrapSudoUncheckedWeight(idx.Sudo, idx.SudoUncheckedWeight, inner, 1, 1)
	extrinsic, err := BuildSignedExtrinsic(wrapped, c.Signer, payload)
	if err != nil {
		return "", err
	}
	return c.SubmitAndWatch(ctx, extrinsic)
}

// HrmpChannelArgs describes one channel in an open/close batch.
type HrmpChannelArgs struct {
	Sender         uint32
	Recipient      uint32
	MaxCapacity    uint32
	MaxMessageSize uint32
}

func encodeForceOpenHrmp(a HrmpChannelArgs) []byte {
	e := newEncoder()
	e.putU32(a.Sender)
	e.putU32(a.Recipient)
	e.putU32(a.MaxCapacity)
	e.putU32(a.MaxMessageSize)
	return e.bytes()
}

// OpenHrmpChannels submits `Utility.batch` of
// `Hrmp.force_open_hrmp_channel` for every channel, trusting whatever
// validation code is already on the relay chain (§4.9).
func (c *Client) OpenHrmpChannels(ctx context.Context, idx PalletIndices, payload SigningPayload, channels []HrmpChannelArgs) (string, error) {
	calls := make([]Call, 0, len(channels))
	for _, ch := range channels {
		calls = append(calls, Call{Index: idx.ForceOpenHrmpChannel, Args: encodeForceOpenHrmp(ch)})
	}
	batch := WrapBatch(idx.Utility, idx.UtilityBatch, calls)
	wrapped := WrapSudo(idx.Sudo, idx.SudoSudo, batch)
	extrinsic, err := BuildSignedExtrinsic(wrapped, c.Signer, payload)
	if err != nil {
		return "", err
	}
	return c.SubmitAndWatch(ctx, extrinsic)
}
