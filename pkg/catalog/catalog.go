package catalog

// Category groups capabilities by what they touch.
type Category string

const (
	CategoryTransfer     Category = "transfer"
	CategoryOracle       Category = "oracle"
	CategoryExchange     Category = "exchange"
	CategoryData         Category = "data"
	CategoryAnalysis     Category = "analysis"
	CategoryIdentity     Category = "identity"
	CategoryTokenEconomy Category = "token-economy"
)

// Directive tags. Uppercase letters and underscores only.
const (
	TagCeloBalance        = "CELO_BALANCE"
	TagTokenBalance       = "TOKEN_BALANCE"
	TagTokenInfo          = "TOKEN_INFO"
	TagCeloPrice          = "CELO_PRICE"
	TagTokenPrice         = "TOKEN_PRICE"
	TagMentoQuote         = "MENTO_QUOTE"
	TagMentoSwap          = "MENTO_SWAP"
	TagPortfolio          = "PORTFOLIO"
	TagRegisterWallet     = "REGISTER_WALLET"
	TagAgentInfo          = "AGENT_INFO"
	TagRequestSponsorship = "REQUEST_SPONSORSHIP"

	// Value-transfer tags. These are listed in the catalog so the
	// privileged transfer path shares one source of truth, but they are
	// never registered with the engine and never parsed out of text here.
	TagSendCelo  = "SEND_CELO"
	TagSendToken = "SEND_TOKEN"
)

// Parameter is one positional argument of a capability.
type Parameter struct {
	Name     string
	Required bool
	Example  string
}

// Example maps a natural-language request to the literal directive the
// model should emit for it.
type Example struct {
	Input     string
	Directive string
}

// Capability describes one invocable capability. The table below is the
// single source of truth; it is read once at startup and never mutated.
type Capability struct {
	ID             string
	Name           string
	Description    string
	Category       Category
	Tag            string
	Parameters     []Parameter
	Examples       []Example
	RequiresWallet bool
	Mutates        bool
}

// IsTransfer reports whether the capability belongs to the privileged
// value-transfer path and must stay out of the engine.
func (c Capability) IsTransfer() bool {
	return c.Category == CategoryTransfer
}

var capabilities = []Capability{
	{
		ID:          "celo-balance",
		Name:        "CELO Balance",
		Description: "Look up the native CELO balance of the agent wallet or any address",
		Category:    CategoryData,
		Tag:         TagCeloBalance,
		Parameters: []Parameter{
			{Name: "address", Example: "0x32Be343B94f860124dC4fEe278FDCBD38C102D88"},
		},
		Examples: []Example{
			{Input: "how much CELO do I have?", Directive: "[[CELO_BALANCE]]"},
			{Input: "check the balance of 0x32Be...2D88", Directive: "[[CELO_BALANCE|0x32Be343B94f860124dC4fEe278FDCBD38C102D88]]"},
		},
		RequiresWallet: true,
	},
	{
		ID:          "token-balance",
		Name:        "Token Balance",
		Description: "Look up an ERC-20 token balance by symbol or contract address",
		Category:    CategoryData,
		Tag:         TagTokenBalance,
		Parameters: []Parameter{
			{Name: "token", Required: true, Example: "cUSD"},
			{Name: "address", Example: "0x32Be343B94f860124dC4fEe278FDCBD38C102D88"},
		},
		Examples: []Example{
			{Input: "what's my cUSD balance?", Directive: "[[TOKEN_BALANCE|cUSD]]"},
		},
		RequiresWallet: true,
	},
	{
		ID:          "token-info",
		Name:        "Token Info",
		Description: "Describe a token: name, symbol, decimals and contract address",
		Category:    CategoryData,
		Tag:         TagTokenInfo,
		Parameters: []Parameter{
			{Name: "token", Required: true, Example: "cEUR"},
		},
		Examples: []Example{
			{Input: "what is cEUR?", Directive: "[[TOKEN_INFO|cEUR]]"},
		},
	},
	{
		ID:          "celo-price",
		Name:        "CELO Price",
		Description: "Fetch the current CELO spot price from the price oracle",
		Category:    CategoryOracle,
		Tag:         TagCeloPrice,
		Parameters: []Parameter{
			{Name: "quote", Example: "USD"},
		},
		Examples: []Example{
			{Input: "what's CELO trading at?", Directive: "[[CELO_PRICE]]"},
			{Input: "CELO price in euros", Directive: "[[CELO_PRICE|EUR]]"},
		},
	},
	{
		ID:          "token-price",
		Name:        "Token Price",
		Description: "Fetch the current price of any supported token",
		Category:    CategoryOracle,
		Tag:         TagTokenPrice,
		Parameters: []Parameter{
			{Name: "token", Required: true, Example: "cUSD"},
			{Name: "quote", Example: "USD"},
		},
		Examples: []Example{
			{Input: "price of cREAL?", Directive: "[[TOKEN_PRICE|cREAL]]"},
		},
	},
	{
		ID:          "mento-quote",
		Name:        "Mento Quote",
		Description: "Quote an exchange rate on Mento without executing anything",
		Category:    CategoryExchange,
		Tag:         TagMentoQuote,
		Parameters: []Parameter{
			{Name: "from", Required: true, Example: "CELO"},
			{Name: "to", Required: true, Example: "cUSD"},
			{Name: "amount", Required: true, Example: "10"},
		},
		Examples: []Example{
			{Input: "how much cUSD would 10 CELO get me?", Directive: "[[MENTO_QUOTE|CELO|cUSD|10]]"},
		},
	},
	{
		ID:          "mento-swap",
		Name:        "Mento Swap",
		Description: "Execute a swap between two Mento assets from the agent wallet",
		Category:    CategoryExchange,
		Tag:         TagMentoSwap,
		Parameters: []Parameter{
			{Name: "from", Required: true, Example: "CELO"},
			{Name: "to", Required: true, Example: "cUSD"},
			{Name: "amount", Required: true, Example: "5"},
		},
		Examples: []Example{
			{Input: "swap 5 CELO into cUSD", Directive: "[[MENTO_SWAP|CELO|cUSD|5]]"},
		},
		RequiresWallet: true,
		Mutates:        true,
	},
	{
		ID:          "portfolio",
		Name:        "Portfolio",
		Description: "Summarize the agent wallet's holdings with USD valuations",
		Category:    CategoryAnalysis,
		Tag:         TagPortfolio,
		Examples: []Example{
			{Input: "what am I holding?", Directive: "[[PORTFOLIO]]"},
		},
		RequiresWallet: true,
	},
	{
		ID:          "register-wallet",
		Name:        "Register Wallet",
		Description: "Register the agent's wallet on-chain so it can transact",
		Category:    CategoryIdentity,
		Tag:         TagRegisterWallet,
		Examples: []Example{
			{Input: "set up my wallet", Directive: "[[REGISTER_WALLET]]"},
		},
		Mutates: true,
	},
	{
		ID:          "agent-info",
		Name:        "Agent Info",
		Description: "Show the agent's identity: handle, template and wallet address",
		Category:    CategoryIdentity,
		Tag:         TagAgentInfo,
		Examples: []Example{
			{Input: "who are you?", Directive: "[[AGENT_INFO]]"},
		},
	},
	{
		ID:          "request-sponsorship",
		Name:        "Request Sponsorship",
		Description: "Ask the gas sponsor service to fund the agent wallet",
		Category:    CategoryTokenEconomy,
		Tag:         TagRequestSponsorship,
		Parameters: []Parameter{
			{Name: "reason", Example: "need gas for first swap"},
		},
		Examples: []Example{
			{Input: "I need gas money", Directive: "[[REQUEST_SPONSORSHIP|need gas for first swap]]"},
		},
		RequiresWallet: true,
		Mutates:        true,
	},
	{
		ID:          "send-celo",
		Name:        "Send CELO",
		Description: "Transfer native CELO to another address",
		Category:    CategoryTransfer,
		Tag:         TagSendCelo,
		Parameters: []Parameter{
			{Name: "to", Required: true, Example: "0x32Be343B94f860124dC4fEe278FDCBD38C102D88"},
			{Name: "amount", Required: true, Example: "1.5"},
		},
		RequiresWallet: true,
		Mutates:        true,
	},
	{
		ID:          "send-token",
		Name:        "Send Token",
		Description: "Transfer an ERC-20 token to another address",
		Category:    CategoryTransfer,
		Tag:         TagSendToken,
		Parameters: []Parameter{
			{Name: "token", Required: true, Example: "cUSD"},
			{Name: "to", Required: true, Example: "0x32Be343B94f860124dC4fEe278FDCBD38C102D88"},
			{Name: "amount", Required: true, Example: "20"},
		},
		RequiresWallet: true,
		Mutates:        true,
	},
}

// All returns every catalog entry, transfer tags included.
func All() []Capability {
	out := make([]Capability, len(capabilities))
	copy(out, capabilities)
	return out
}

// ByTag returns the capability carrying the given directive tag.
func ByTag(tag string) (Capability, bool) {
	for _, c := range capabilities {
		if c.Tag == tag {
			return c, true
		}
	}
	return Capability{}, false
}

// ByID returns the capability with the given id.
func ByID(id string) (Capability, bool) {
	for _, c := range capabilities {
		if c.ID == id {
			return c, true
		}
	}
	return Capability{}, false
}

// ReservedTransferTags lists the tags the directive parser and engine
// must never touch.
func ReservedTransferTags() []string {
	return []string{TagSendCelo, TagSendToken}
}
