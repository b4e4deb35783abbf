package app

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/app"
	"github.com/iov-one/custody/commands/server"
	"github.com/iov-one/custody/crypto"
	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/x/escrow"
	"github.com/iov-one/custody/x/sigs"
	"github.com/iov-one/custody/x/system"
	"github.com/iov-one/custody/x/token"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	chainID       = "test-custody-1"
	startLamports = 1000000000
	supply        = 100
	price         = 5000
)

type testApp struct {
	t      *testing.T
	app    app.BaseApp
	height int64
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	abciApp, err := GenerateApp(&server.Options{
		Logger:   log.NewNopLogger(),
		Registry: prometheus.NewRegistry(),
	})
	require.NoError(t, err)
	return &testApp{t: t, app: abciApp.(app.BaseApp)}
}

func (a *testApp) initChain(appState string) {
	assert.Equal(a.t, "", a.app.GetChainID())
	a.app.InitChain(abci.RequestInitChain{ChainId: chainID, AppStateBytes: []byte(appState)})
	a.beginBlock()
	a.commit()
}

func (a *testApp) beginBlock() {
	a.height++
	a.app.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: a.height, ChainID: chainID}})
}

// commit closes the current block and opens the next one.
func (a *testApp) commit() []byte {
	a.app.EndBlock(abci.RequestEndBlock{})
	res := a.app.Commit()
	require.NotEmpty(a.t, res.Data)
	a.beginBlock()
	return res.Data
}

func (a *testApp) signedTx(ins *custody.Instruction, signer *crypto.PrivateKey, seq int64) []byte {
	tx := &Tx{Instruction: ins}
	sig, err := sigs.SignTx(signer, tx, chainID, seq)
	require.NoError(a.t, err)
	tx.Signatures = []*sigs.StdSignature{sig}
	bz, err := tx.Marshal()
	require.NoError(a.t, err)
	return bz
}

// submit runs a transaction through CheckTx and DeliverTx, both must pass.
func (a *testApp) submit(ins *custody.Instruction, signer *crypto.PrivateKey, seq int64) abci.ResponseDeliverTx {
	bz := a.signedTx(ins, signer, seq)
	chres := a.app.CheckTx(bz)
	require.Equal(a.t, uint32(0), chres.Code, chres.Log)
	dres := a.app.DeliverTx(bz)
	require.Equal(a.t, uint32(0), dres.Code, dres.Log)
	return dres
}

func (a *testApp) query(path string, key []byte) abci.ResponseQuery {
	res := a.app.Query(abci.RequestQuery{Path: path, Data: key})
	require.Equal(a.t, uint32(0), res.Code, res.Log)
	return res
}

func (a *testApp) lamports(addr custody.Address) uint64 {
	var acct system.Account
	require.NoError(a.t, app.UnmarshalOneResult(a.query("/accounts", addr).Value, &acct))
	return acct.Lamports
}

func (a *testApp) tokens(owner, mint custody.Address) uint64 {
	addr, err := token.HoldingAddress(owner, mint)
	require.NoError(a.t, err)
	var h token.Holding
	require.NoError(a.t, app.UnmarshalOneResult(a.query("/holdings", addr).Value, &h))
	return h.Amount
}

func genesis(seller, buyer, mint custody.Address) string {
	return fmt.Sprintf(`{
		"system": [
			{"address": "%[1]s", "lamports": %[4]d},
			{"address": "%[2]s", "lamports": %[4]d}
		],
		"token": {
			"mints": [{"address": "%[3]s", "authority": "%[1]s", "decimals": 0}],
			"holdings": [{"owner": "%[1]s", "mint": "%[3]s", "amount": %[5]d}]
		},
		"conf": {
			"escrow": {"strict_terms": true}
		}
	}`, seller, buyer, mint, startLamports, supply)
}

func TestEscrowExchange(t *testing.T) {
	seller := custodytest.NewKey(t)
	buyer := custodytest.NewKey(t)
	mint := custodytest.RandomAddr(t)

	a := newTestApp(t)
	a.initChain(genesis(seller.Address(), buyer.Address(), mint))
	assert.Equal(t, chainID, a.app.GetChainID())
	assert.Equal(t, uint64(supply), a.tokens(seller.Address(), mint))

	escrowAddr, _, err := escrow.Address(escrow.ProgramID, mint)
	require.NoError(t, err)

	p := uint64(price)
	create, err := escrow.NewCreateInstruction(escrow.ProgramID, seller.Address(), mint, &p)
	require.NoError(t, err)
	dres := a.submit(create, seller, 0)
	assert.Equal(t, []byte(escrowAddr), dres.Data)

	deposit, err := escrow.NewDepositInstruction(escrow.ProgramID, mint, seller.Address(), seller.Address(), supply)
	require.NoError(t, err)
	depositTx := a.signedTx(deposit, seller, 1)
	require.Equal(t, uint32(0), a.app.DeliverTx(depositTx).Code)

	// the same signed transaction cannot be replayed
	replay := a.app.DeliverTx(depositTx)
	assert.Equal(t, sigs.ErrInvalidSequence.ABCICode(), replay.Code)

	a.commit()
	assert.Equal(t, uint64(0), a.tokens(seller.Address(), mint))
	assert.Equal(t, uint64(supply), a.tokens(escrowAddr, mint))

	settle, err := escrow.NewSettleInstruction(escrow.ProgramID, mint, buyer.Address(), seller.Address(), supply, price)
	require.NoError(t, err)
	a.submit(settle, buyer, 0)
	a.commit()

	assert.Equal(t, uint64(supply), a.tokens(buyer.Address(), mint))
	assert.Equal(t, uint64(0), a.tokens(escrowAddr, mint))

	rent := system.DefaultConfiguration()
	holdingRent, err := rent.MinimumBalance(token.HoldingSize)
	require.NoError(t, err)
	assert.Equal(t, uint64(startLamports-price)-holdingRent, a.lamports(buyer.Address()))

	res := a.query("/escrows", escrowAddr)
	models, err := app.QueryModels(res.Key, res.Value)
	require.NoError(t, err)
	require.Len(t, models, 1)
	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(models[0].Value, &record))
	assert.Equal(t, "settled", record["status"])

	// both deposits consumed a sequence, the replay did not
	var user sigs.UserData
	require.NoError(t, app.UnmarshalOneResult(a.query("/auth", seller.Address()).Value, &user))
	assert.Equal(t, int64(2), user.Sequence)
}

func TestRejectedTransactions(t *testing.T) {
	seller := custodytest.NewKey(t)
	buyer := custodytest.NewKey(t)
	mint := custodytest.RandomAddr(t)

	a := newTestApp(t)
	a.initChain(genesis(seller.Address(), buyer.Address(), mint))

	p := uint64(price)
	create, err := escrow.NewCreateInstruction(escrow.ProgramID, seller.Address(), mint, &p)
	require.NoError(t, err)

	// signed by someone else than the seller
	res := a.app.DeliverTx(a.signedTx(create, buyer, 0))
	assert.Equal(t, errors.ErrUnauthorized.ABCICode(), res.Code)

	// not signed at all
	unsigned, err := (&Tx{Instruction: create}).Marshal()
	require.NoError(t, err)
	res = a.app.DeliverTx(unsigned)
	assert.Equal(t, errors.ErrUnauthorized.ABCICode(), res.Code)

	// garbage
	res = a.app.DeliverTx([]byte("not a transaction"))
	assert.Equal(t, errors.ErrDecoding.ABCICode(), res.Code)

	// unknown program
	ins := custody.NewInstruction(custodytest.RandomProgram(t), nil)
	res = a.app.DeliverTx(a.signedTx(ins, seller, 0))
	assert.Equal(t, errors.ErrUnknownInstruction.ABCICode(), res.Code)

	// settle before deposit fails and leaves the balances untouched.
	// Failed deliveries consumed sequences the check state never saw,
	// so these go through DeliverTx only.
	res = a.app.DeliverTx(a.signedTx(create, seller, 1))
	require.Equal(t, uint32(0), res.Code, res.Log)
	settle, err := escrow.NewSettleInstruction(escrow.ProgramID, mint, buyer.Address(), seller.Address(), supply, price)
	require.NoError(t, err)
	res = a.app.DeliverTx(a.signedTx(settle, buyer, 1))
	assert.NotEqual(t, uint32(0), res.Code)
	a.commit()
	assert.Equal(t, uint64(startLamports), a.lamports(buyer.Address()))
	assert.Equal(t, uint64(supply), a.tokens(seller.Address(), mint))
}

func TestGenInitOptions(t *testing.T) {
	addr := custodytest.RandomAddr(t)
	state, err := GenInitOptions([]string{addr.String()})
	require.NoError(t, err)

	a := newTestApp(t)
	a.initChain(string(state))
	assert.Equal(t, uint64(genesisLamports), a.lamports(addr))

	_, err = GenInitOptions([]string{"hex:zz"})
	assert.True(t, errors.ErrDecoding.Is(err))
}

func TestExamples(t *testing.T) {
	for _, ex := range Examples() {
		assert.NotEmpty(t, ex.Filename)
		assert.NotNil(t, ex.Obj)
	}
}
