package market

import (
	"errors"
	"math/big"

	coretypes "vibemarket/core/types"

	"vibemarket/core/events"
	"vibemarket/native/common"
	"vibemarket/native/nft"
	"vibemarket/native/registry"
)

var errNilState = errors.New("market engine: state not configured")

type engineState interface {
	GetAccount(addr [20]byte) (*coretypes.Account, error)
	PutAccount(addr [20]byte, account *coretypes.Account) error
	AssetGet(id uint64) (*nft.Asset, bool, error)
	AssetPut(asset *nft.Asset) error
	AssetApprovalGet(id uint64) ([20]byte, bool, error)
	AssetApprovalClear(id uint64) error
	ListingGet(id uint64) (*Listing, bool, error)
	ListingPut(listing *Listing) error
	NextListingID() (uint64, error)
	AssetListed(assetID uint64) (bool, error)
	SetAssetListed(assetID uint64, listed bool) error
	PlatformFeeGet() (uint32, bool, error)
	PlatformFeePut(bps uint32) error
	ModulePaused(module string) (bool, error)
	SetModulePaused(module string, paused bool) error
	Snapshot() int
	RevertToSnapshot(revision int)
}

// DirectoryView resolves directory names to handles; the market consults it to
// validate token-priced listings.
type DirectoryView interface {
	Contract(name string) ([20]byte, error)
}

// Engine lists assets for sale and executes atomic purchase settlement:
// asset transfer plus the three-way split of price, platform fee and creator
// royalty, all applied as one unit or not at all.
type Engine struct {
	state        engineState
	directory    DirectoryView
	emitter      events.Emitter
	owner        [20]byte
	address      [20]byte
	feeCollector [20]byte
}

// NewEngine creates a market engine with a no-op emitter.
func NewEngine() *Engine {
	return &Engine{emitter: events.NoopEmitter{}}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetDirectory configures the access directory consulted for payment token
// resolution.
func (e *Engine) SetDirectory(directory DirectoryView) { e.directory = directory }

// SetOwner configures the administrative authority.
func (e *Engine) SetOwner(owner [20]byte) { e.owner = owner }

// SetAddress configures the market's own handle, the operator sellers must
// approve before listing.
func (e *Engine) SetAddress(addr [20]byte) { e.address = addr }

// SetFeeCollector configures the account receiving platform fees.
func (e *Engine) SetFeeCollector(addr [20]byte) { e.feeCollector = addr }

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

func ensureAccount(account *coretypes.Account) *coretypes.Account {
	if account == nil {
		return &coretypes.Account{BalanceNative: big.NewInt(0), BalanceVibe: big.NewInt(0)}
	}
	if account.BalanceNative == nil {
		account.BalanceNative = big.NewInt(0)
	}
	if account.BalanceVibe == nil {
		account.BalanceVibe = big.NewInt(0)
	}
	return account
}

// move shifts settlement value between two accounts in the listing's payment
// unit. Loads are sequential so overlapping parties accumulate correctly.
func (e *Engine) move(from, to [20]byte, useToken bool, amount *big.Int) error {
	if amount == nil || amount.Sign() == 0 {
		return nil
	}
	fromAcc, err := e.state.GetAccount(from)
	if err != nil {
		return err
	}
	fromAcc = ensureAccount(fromAcc)
	if useToken {
		if fromAcc.BalanceVibe.Cmp(amount) < 0 {
			return ErrInsufficientFunds
		}
		fromAcc.BalanceVibe = new(big.Int).Sub(fromAcc.BalanceVibe, amount)
	} else {
		if fromAcc.BalanceNative.Cmp(amount) < 0 {
			return ErrInsufficientFunds
		}
		fromAcc.BalanceNative = new(big.Int).Sub(fromAcc.BalanceNative, amount)
	}
	if err := e.state.PutAccount(from, fromAcc); err != nil {
		return err
	}
	toAcc, err := e.state.GetAccount(to)
	if err != nil {
		return err
	}
	toAcc = ensureAccount(toAcc)
	if useToken {
		toAcc.BalanceVibe = new(big.Int).Add(toAcc.BalanceVibe, amount)
	} else {
		toAcc.BalanceNative = new(big.Int).Add(toAcc.BalanceNative, amount)
	}
	return e.state.PutAccount(to, toAcc)
}

func (e *Engine) platformFeeBps() (uint32, error) {
	bps, ok, err := e.state.PlatformFeeGet()
	if err != nil {
		return 0, err
	}
	if !ok {
		return DefaultPlatformFeeBps, nil
	}
	return bps, nil
}

func bpsShare(price *big.Int, bps uint32) *big.Int {
	share := new(big.Int).Mul(price, new(big.Int).SetUint64(uint64(bps)))
	return share.Div(share, big.NewInt(FeeDenominator))
}

// CreateListing offers an asset for sale. The caller must own the asset, the
// market must hold the per-asset approval, and the asset may not already be
// listed.
func (e *Engine) CreateListing(caller [20]byte, assetID uint64, collection, paymentToken [20]byte, price *big.Int) (*Listing, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if err := common.Guard(e.state, common.ModuleMarket); err != nil {
		return nil, err
	}
	if price == nil || price.Sign() <= 0 {
		return nil, ErrInvalidPrice
	}
	asset, ok, err := e.state.AssetGet(assetID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNonexistentAsset
	}
	if asset.Owner != caller {
		return nil, ErrNotTokenOwner
	}
	operator, approved, err := e.state.AssetApprovalGet(assetID)
	if err != nil {
		return nil, err
	}
	if !approved || operator != e.address {
		return nil, ErrNotApproved
	}
	if paymentToken != ([20]byte{}) {
		if e.directory == nil {
			return nil, ErrUnsupportedPayment
		}
		ledger, err := e.directory.Contract(registry.NameVibecoin)
		if err != nil {
			return nil, err
		}
		if ledger == ([20]byte{}) || paymentToken != ledger {
			return nil, ErrUnsupportedPayment
		}
	}
	listed, err := e.state.AssetListed(assetID)
	if err != nil {
		return nil, err
	}
	if listed {
		return nil, ErrAlreadyListed
	}
	id, err := e.state.NextListingID()
	if err != nil {
		return nil, err
	}
	listing := &Listing{
		ID:           id,
		AssetID:      assetID,
		Collection:   collection,
		Seller:       caller,
		PaymentToken: paymentToken,
		Price:        new(big.Int).Set(price),
		Active:       true,
	}
	revision := e.state.Snapshot()
	if err := e.state.ListingPut(listing); err != nil {
		e.state.RevertToSnapshot(revision)
		return nil, err
	}
	if err := e.state.SetAssetListed(assetID, true); err != nil {
		e.state.RevertToSnapshot(revision)
		return nil, err
	}
	e.emit(newListingCreatedEvent(listing))
	return listing.Clone(), nil
}

// UpdateListing changes the asking price of an active listing.
func (e *Engine) UpdateListing(caller [20]byte, id uint64, newPrice *big.Int) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	listing, ok, err := e.state.ListingGet(id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNonexistentListing
	}
	if listing.Seller != caller {
		return ErrNotListingOwner
	}
	if !listing.Active {
		return ErrListingNotActive
	}
	if newPrice == nil || newPrice.Sign() <= 0 {
		return ErrInvalidPrice
	}
	previous := listing.Price
	listing.Price = new(big.Int).Set(newPrice)
	if err := e.state.ListingPut(listing); err != nil {
		return err
	}
	e.emit(newListingUpdatedEvent(id, previous, listing.Price))
	return nil
}

// CancelListing terminates an active listing and clears the asset's listed
// flag.
func (e *Engine) CancelListing(caller [20]byte, id uint64) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	listing, ok, err := e.state.ListingGet(id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNonexistentListing
	}
	if listing.Seller != caller {
		return ErrNotListingOwner
	}
	if !listing.Active {
		return ErrListingNotActive
	}
	listing.Active = false
	revision := e.state.Snapshot()
	if err := e.state.ListingPut(listing); err != nil {
		e.state.RevertToSnapshot(revision)
		return err
	}
	if err := e.state.SetAssetListed(listing.AssetID, false); err != nil {
		e.state.RevertToSnapshot(revision)
		return err
	}
	e.emit(newListingCancelledEvent(id))
	return nil
}

// Purchase settles an active listing: the buyer is debited exactly
// price+fee+royalty, the seller, platform and creator are credited their
// shares, and the asset moves to the buyer. Any failure unwinds the whole
// settlement.
func (e *Engine) Purchase(buyer [20]byte, id uint64, payment *big.Int) (*Settlement, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if err := common.Guard(e.state, common.ModuleMarket); err != nil {
		return nil, err
	}
	listing, ok, err := e.state.ListingGet(id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNonexistentListing
	}
	if !listing.Active {
		return nil, ErrListingNotActive
	}
	if buyer == listing.Seller {
		return nil, ErrCannotBuyOwnListing
	}
	asset, ok, err := e.state.AssetGet(listing.AssetID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNonexistentAsset
	}
	if asset.Owner != listing.Seller {
		return nil, ErrNotTokenOwner
	}
	feeBps, err := e.platformFeeBps()
	if err != nil {
		return nil, err
	}
	fee := bpsShare(listing.Price, feeBps)
	royalty := bpsShare(listing.Price, asset.RoyaltyBps)
	total := new(big.Int).Add(listing.Price, fee)
	total.Add(total, royalty)
	if payment == nil || payment.Cmp(total) < 0 {
		return nil, ErrInsufficientPayment
	}
	useToken := listing.PaymentToken != ([20]byte{})

	revision := e.state.Snapshot()
	if err := e.move(buyer, listing.Seller, useToken, listing.Price); err != nil {
		e.state.RevertToSnapshot(revision)
		return nil, err
	}
	if err := e.move(buyer, e.feeCollector, useToken, fee); err != nil {
		e.state.RevertToSnapshot(revision)
		return nil, err
	}
	if err := e.move(buyer, asset.Creator, useToken, royalty); err != nil {
		e.state.RevertToSnapshot(revision)
		return nil, err
	}
	asset.Owner = buyer
	if err := e.state.AssetPut(asset); err != nil {
		e.state.RevertToSnapshot(revision)
		return nil, err
	}
	if err := e.state.AssetApprovalClear(asset.ID); err != nil {
		e.state.RevertToSnapshot(revision)
		return nil, err
	}
	listing.Active = false
	if err := e.state.ListingPut(listing); err != nil {
		e.state.RevertToSnapshot(revision)
		return nil, err
	}
	if err := e.state.SetAssetListed(listing.AssetID, false); err != nil {
		e.state.RevertToSnapshot(revision)
		return nil, err
	}

	settlement := &Settlement{
		ListingID:   id,
		AssetID:     listing.AssetID,
		Buyer:       buyer,
		Seller:      listing.Seller,
		Price:       new(big.Int).Set(listing.Price),
		PlatformFee: fee,
		Royalty:     royalty,
	}
	e.emit(newSoldEvent(listing, settlement))
	return settlement, nil
}

// UpdatePlatformFee sets the marketplace fee in basis points, capped at 10%.
func (e *Engine) UpdatePlatformFee(caller [20]byte, bps uint32) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if err := common.RequireOwner(e.owner, caller); err != nil {
		return err
	}
	if bps > MaxPlatformFeeBps {
		return ErrFeeTooHigh
	}
	previous, err := e.platformFeeBps()
	if err != nil {
		return err
	}
	if err := e.state.PlatformFeePut(bps); err != nil {
		return err
	}
	e.emit(newFeeUpdatedEvent(previous, bps))
	return nil
}

// PlatformFee reports the active fee in basis points.
func (e *Engine) PlatformFee() (uint32, error) {
	if e == nil || e.state == nil {
		return 0, errNilState
	}
	return e.platformFeeBps()
}

// GetListing returns a copy of the listing record.
func (e *Engine) GetListing(id uint64) (*Listing, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	listing, ok, err := e.state.ListingGet(id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNonexistentListing
	}
	return listing.Clone(), nil
}

// Paused reports the module breaker state.
func (e *Engine) Paused() (bool, error) {
	if e == nil || e.state == nil {
		return false, errNilState
	}
	return e.state.ModulePaused(common.ModuleMarket)
}

// Pause engages the breaker gating CreateListing and Purchase.
func (e *Engine) Pause(caller [20]byte) error {
	return e.setPaused(caller, true)
}

// Unpause clears the breaker.
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
	if err := e.state.SetModulePaused(common.ModuleMarket, paused); err != nil {
		return err
	}
	e.emit(newPauseEvent(paused, caller))
	return nil
}
