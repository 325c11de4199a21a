// internal/ledger/evm/abi.go
package evm

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Only the functions the services call are declared.

const presaleABIJSON = `[
{"type":"function","name":"claimEnabled","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"bool"}]},
{"type":"function","name":"presaleCancelled","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"bool"}]},
{"type":"function","name":"presaleSuccessful","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"bool"}]},
{"type":"function","name":"getLatestETHPrice","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"ethContributions","stateMutability":"view","inputs":[{"name":"","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"usdtContributions","stateMutability":"view","inputs":[{"name":"","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"totalContributionsUSD","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"totalTokensOfferedPresale","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"totalTokens","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"burnTokens","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"initialTokenQty","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"devMarketingTokens","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"initialValueToAddInUSD","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"presaleValueRaised","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"softCapUSD","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"hardCapUSD","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"presaleEndDate","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"getContributors","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"tuple[]","components":[{"name":"contributorAddress","type":"address"},{"name":"totalContributionUSD","type":"uint256"}]}]},
{"type":"function","name":"contributeWithETH","stateMutability":"payable","inputs":[],"outputs":[]},
{"type":"function","name":"contributeWithUSDT","stateMutability":"nonpayable","inputs":[{"name":"amount","type":"uint256"}],"outputs":[]},
{"type":"function","name":"claimTokens","stateMutability":"nonpayable","inputs":[],"outputs":[]},
{"type":"function","name":"refund","stateMutability":"nonpayable","inputs":[],"outputs":[]},
{"type":"function","name":"updateParameters","stateMutability":"nonpayable","inputs":[
	{"name":"_initialTokenQty","type":"uint256"},
	{"name":"_initialValueToAddInUSD","type":"uint256"},
	{"name":"_burnTokens","type":"uint256"},
	{"name":"_devMarketingTokens","type":"uint256"},
	{"name":"_hardCapUSD","type":"uint256"},
	{"name":"_softCapUSD","type":"uint256"},
	{"name":"_totalTokensOfferedPresale","type":"uint256"}],"outputs":[]},
{"type":"function","name":"enableClaimTokens","stateMutability":"nonpayable","inputs":[],"outputs":[]},
{"type":"function","name":"endPresale","stateMutability":"nonpayable","inputs":[],"outputs":[]},
{"type":"function","name":"cancelPresale","stateMutability":"nonpayable","inputs":[],"outputs":[]},
{"type":"function","name":"withdrawContributions","stateMutability":"nonpayable","inputs":[],"outputs":[]},
{"type":"function","name":"withdrawRemainingTokens","stateMutability":"nonpayable","inputs":[],"outputs":[]}
]`

const erc20ABIJSON = `[
{"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"totalSupply","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"allowance","stateMutability":"view","inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"approve","stateMutability":"nonpayable","inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
{"type":"function","name":"transfer","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]}
]`

const erc721ABIJSON = `[
{"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"owner","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"tokenOfOwnerByIndex","stateMutability":"view","inputs":[{"name":"owner","type":"address"},{"name":"index","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"isApprovedForAll","stateMutability":"view","inputs":[{"name":"owner","type":"address"},{"name":"operator","type":"address"}],"outputs":[{"name":"","type":"bool"}]},
{"type":"function","name":"setApprovalForAll","stateMutability":"nonpayable","inputs":[{"name":"operator","type":"address"},{"name":"approved","type":"bool"}],"outputs":[]}
]`

const stakingABIJSON = `[
{"type":"function","name":"bonusEndBlock","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"pendingReward","stateMutability":"view","inputs":[{"name":"_user","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"getUserStakedTokens","stateMutability":"view","inputs":[{"name":"_user","type":"address"},{"name":"_limit","type":"uint256"},{"name":"_offset","type":"uint256"}],"outputs":[{"name":"","type":"uint256[]"},{"name":"","type":"uint256"}]},
{"type":"function","name":"getUserStakedTokensCount","stateMutability":"view","inputs":[{"name":"_user","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"rewardToken","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
{"type":"function","name":"deposit","stateMutability":"nonpayable","inputs":[{"name":"_tokenIds","type":"uint256[]"}],"outputs":[]},
{"type":"function","name":"withdraw","stateMutability":"nonpayable","inputs":[{"name":"_tokenIds","type":"uint256[]"}],"outputs":[]}
]`

const poolFactoryABIJSON = `[
{"type":"function","name":"getDeployedPools","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address[]"}]},
{"type":"function","name":"deploymentFee","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"deployNewPoolWithFee","stateMutability":"payable","inputs":[
	{"name":"_stakedToken","type":"address"},
	{"name":"_rewardToken","type":"address"},
	{"name":"_admin","type":"address"},
	{"name":"_projectTaxAddress","type":"address"},
	{"name":"_taxAddress","type":"address"},
	{"name":"_rewardPerBlock","type":"uint256"},
	{"name":"_startBlock","type":"uint256"},
	{"name":"_bonusEndBlock","type":"uint256"},
	{"name":"_poolLimitPerUser","type":"uint256"},
	{"name":"_tax","type":"uint256"},
	{"name":"_projectTax","type":"uint256"}],"outputs":[]},
{"type":"function","name":"deployNewPoolWithoutFee","stateMutability":"nonpayable","inputs":[
	{"name":"_stakedToken","type":"address"},
	{"name":"_rewardToken","type":"address"},
	{"name":"_admin","type":"address"},
	{"name":"_projectTaxAddress","type":"address"},
	{"name":"_taxAddress","type":"address"},
	{"name":"_rewardPerBlock","type":"uint256"},
	{"name":"_startBlock","type":"uint256"},
	{"name":"_bonusEndBlock","type":"uint256"},
	{"name":"_poolLimitPerUser","type":"uint256"},
	{"name":"_tax","type":"uint256"},
	{"name":"_projectTax","type":"uint256"}],"outputs":[]},
{"type":"function","name":"updateDeploymentFee","stateMutability":"nonpayable","inputs":[{"name":"_newFee","type":"uint256"}],"outputs":[]},
{"type":"function","name":"withdrawFunds","stateMutability":"nonpayable","inputs":[],"outputs":[]}
]`

var (
	presaleABI     = mustParseABI(presaleABIJSON)
	erc20ABI       = mustParseABI(erc20ABIJSON)
	erc721ABI      = mustParseABI(erc721ABIJSON)
	stakingABI     = mustParseABI(stakingABIJSON)
	poolFactoryABI = mustParseABI(poolFactoryABIJSON)
)

func mustParseABI(def string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		panic("evm: invalid abi: " + err.Error())
	}
	return parsed
}
