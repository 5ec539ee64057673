package nft

import (
	"errors"
	"strings"

	"vibemarket/core/events"
	"vibemarket/native/common"
)

var errNilState = errors.New("nft engine: state not configured")

type engineState interface {
	AssetGet(id uint64) (*Asset, bool, error)
	AssetPut(asset *Asset) error
	AssetDelete(id uint64) error
	AssetApprovalGet(id uint64) ([20]byte, bool, error)
	AssetApprovalPut(id uint64, operator [20]byte) error
	AssetApprovalClear(id uint64) error
	NextAssetID() (uint64, error)
	AssetCount() (uint64, error)
	ModulePaused(module string) (bool, error)
	SetModulePaused(module string, paused bool) error
	Snapshot() int
	RevertToSnapshot(revision int)
}

// Engine issues and tracks unique assets with per-asset royalty metadata. An
// asset moves through nonexistent -> minted -> burned; royalty updates may
// occur any number of times while minted.
type Engine struct {
	state          engineState
	emitter        events.Emitter
	owner          [20]byte
	royaltyCeiling uint32
}

// NewEngine creates an asset registry engine with the default royalty ceiling
// and a no-op emitter.
func NewEngine() *Engine {
	return &Engine{
		emitter:        events.NoopEmitter{},
		royaltyCeiling: DefaultMaxRoyaltyBps,
	}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetOwner configures the administrative authority for pause toggles.
func (e *Engine) SetOwner(owner [20]byte) { e.owner = owner }

// SetRoyaltyCeiling overrides the maximum royalty accepted at mint and update
// time. Zero restores the default.
func (e *Engine) SetRoyaltyCeiling(bps uint32) {
	if bps == 0 {
		e.royaltyCeiling = DefaultMaxRoyaltyBps
		return
	}
	e.royaltyCeiling = bps
}

// SetEmitter configures the event emitter. Passing nil resets it to a no-op
// implementation.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

func (e *Engine) emit(evt events.Event) {
	if e == nil || e.emitter == nil || evt == nil {
		return
	}
	e.emitter.Emit(evt)
}

func (e *Engine) validateMint(to [20]byte, uri string, royaltyBps uint32) error {
	if strings.TrimSpace(uri) == "" {
		return ErrEmptyURI
	}
	if royaltyBps > e.royaltyCeiling {
		return ErrRoyaltyTooHigh
	}
	if to == ([20]byte{}) {
		return ErrInvalidRecipient
	}
	return nil
}

func (e *Engine) mintOne(to [20]byte, uri string, royaltyBps uint32) (*Asset, error) {
	id, err := e.state.NextAssetID()
	if err != nil {
		return nil, err
	}
	asset := &Asset{
		ID:         id,
		Owner:      to,
		Creator:    to,
		URI:        uri,
		RoyaltyBps: royaltyBps,
	}
	if err := e.state.AssetPut(asset); err != nil {
		return nil, err
	}
	return asset, nil
}

// Mint creates a single asset owned by the recipient and assigns the next
// sequential identifier.
func (e *Engine) Mint(to [20]byte, uri string, royaltyBps uint32) (*Asset, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if err := common.Guard(e.state, common.ModuleNFT); err != nil {
		return nil, err
	}
	if err := e.validateMint(to, uri, royaltyBps); err != nil {
		return nil, err
	}
	asset, err := e.mintOne(to, uri, royaltyBps)
	if err != nil {
		return nil, err
	}
	e.emit(newMintedEvent(asset))
	return asset.Clone(), nil
}

// BatchMint creates up to MaxBatchSize assets as one unit. If any entry is
// invalid, nothing is minted.
func (e *Engine) BatchMint(tos [][20]byte, uris []string, royalties []uint32) ([]uint64, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if err := common.Guard(e.state, common.ModuleNFT); err != nil {
		return nil, err
	}
	if len(tos) != len(uris) || len(tos) != len(royalties) {
		return nil, ErrLengthMismatch
	}
	if len(tos) > MaxBatchSize {
		return nil, ErrBatchTooLarge
	}
	for i := range tos {
		if err := e.validateMint(tos[i], uris[i], royalties[i]); err != nil {
			return nil, err
		}
	}
	revision := e.state.Snapshot()
	ids := make([]uint64, 0, len(tos))
	minted := make([]*Asset, 0, len(tos))
	for i := range tos {
		asset, err := e.mintOne(tos[i], uris[i], royalties[i])
		if err != nil {
			e.state.RevertToSnapshot(revision)
			return nil, err
		}
		ids = append(ids, asset.ID)
		minted = append(minted, asset)
	}
	for _, asset := range minted {
		e.emit(newMintedEvent(asset))
	}
	return ids, nil
}

// UpdateRoyalty changes the royalty for an asset. Only the current owner may
// update it and the configured ceiling still applies.
func (e *Engine) UpdateRoyalty(caller [20]byte, id uint64, royaltyBps uint32) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if err := common.Guard(e.state, common.ModuleNFT); err != nil {
		return err
	}
	asset, ok, err := e.state.AssetGet(id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNonexistentAsset
	}
	if asset.Owner != caller {
		return ErrNotTokenOwner
	}
	if royaltyBps > e.royaltyCeiling {
		return ErrRoyaltyTooHigh
	}
	previous := asset.RoyaltyBps
	asset.RoyaltyBps = royaltyBps
	if err := e.state.AssetPut(asset); err != nil {
		return err
	}
	e.emit(newRoyaltyUpdatedEvent(id, previous, royaltyBps))
	return nil
}

// Approve grants (or, with the zero operator, revokes) the per-asset transfer
// authority consumed by burns and market settlement.
func (e *Engine) Approve(caller [20]byte, id uint64, operator [20]byte) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if err := common.Guard(e.state, common.ModuleNFT); err != nil {
		return err
	}
	asset, ok, err := e.state.AssetGet(id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNonexistentAsset
	}
	if asset.Owner != caller {
		return ErrNotTokenOwner
	}
	if operator == ([20]byte{}) {
		if err := e.state.AssetApprovalClear(id); err != nil {
			return err
		}
	} else if err := e.state.AssetApprovalPut(id, operator); err != nil {
		return err
	}
	e.emit(newApprovedEvent(id, operator))
	return nil
}

// Burn removes an asset permanently. The caller must be the asset owner or the
// approved operator; the identifier is never reused.
func (e *Engine) Burn(caller [20]byte, id uint64) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if err := common.Guard(e.state, common.ModuleNFT); err != nil {
		return err
	}
	asset, ok, err := e.state.AssetGet(id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNonexistentAsset
	}
	if asset.Owner != caller {
		operator, approved, err := e.state.AssetApprovalGet(id)
		if err != nil {
			return err
		}
		if !approved || operator != caller {
			return ErrNotAuthorized
		}
	}
	revision := e.state.Snapshot()
	if err := e.state.AssetApprovalClear(id); err != nil {
		e.state.RevertToSnapshot(revision)
		return err
	}
	if err := e.state.AssetDelete(id); err != nil {
		e.state.RevertToSnapshot(revision)
		return err
	}
	e.emit(newBurnedEvent(asset))
	return nil
}

// OwnerOf returns the current owner of a live asset.
func (e *Engine) OwnerOf(id uint64) ([20]byte, error) {
	asset, err := e.Get(id)
	if err != nil {
		return [20]byte{}, err
	}
	return asset.Owner, nil
}

// Get returns a copy of the asset record.
func (e *Engine) Get(id uint64) (*Asset, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	asset, ok, err := e.state.AssetGet(id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNonexistentAsset
	}
	return asset.Clone(), nil
}

// Approved returns the operator approved for the asset, or the zero handle when
// none is set.
func (e *Engine) Approved(id uint64) ([20]byte, error) {
	if e == nil || e.state == nil {
		return [20]byte{}, errNilState
	}
	if _, ok, err := e.state.AssetGet(id); err != nil {
		return [20]byte{}, err
	} else if !ok {
		return [20]byte{}, ErrNonexistentAsset
	}
	operator, ok, err := e.state.AssetApprovalGet(id)
	if err != nil {
		return [20]byte{}, err
	}
	if !ok {
		return [20]byte{}, nil
	}
	return operator, nil
}

// TotalSupply reports the number of live (minted and not burned) assets.
func (e *Engine) TotalSupply() (uint64, error) {
	if e == nil || e.state == nil {
		return 0, errNilState
	}
	return e.state.AssetCount()
}

// Paused reports the module breaker state.
func (e *Engine) Paused() (bool, error) {
	if e == nil || e.state == nil {
		return false, errNilState
	}
	return e.state.ModulePaused(common.ModuleNFT)
}

// Pause engages the module's local circuit breaker.
func (e *Engine) Pause(caller [20]byte) error {
	return e.setPaused(caller, true)
}

// Unpause clears the module's local circuit breaker.
func (e *Engine) Unpause(caller [20]byte) error {
	return e.setPaused(caller, false)
}

func (e *Engine) setPaused(caller [20]byte, paused bool) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if err := common.RequireOwner(e.owner, caller); err != nil {
		return err
	}
	if err := e.state.SetModulePaused(common.ModuleNFT, paused); err != nil {
		return err
	}
	e.emit(newPauseEvent(paused, caller))
	return nil
}
