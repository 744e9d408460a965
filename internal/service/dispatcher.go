package service

import (
	"strings"

	"estate/internal/model"
)

// Greeting opens every chat session
const Greeting = "Hello! I'm your AI real estate assistant. I can help you with property searches, mortgage calculations, market insights, and more. How can I assist you today?"

// TopicRule routes a message to a topic when any keyword occurs in it
type TopicRule struct {
	Topic    model.Topic
	Keywords []string
}

// DefaultTopicRules returns the routing table in priority order
func DefaultTopicRules() []TopicRule {
	return []TopicRule{
		{Topic: model.TopicMortgage, Keywords: []string{"mortgage", "payment", "loan"}},
		{Topic: model.TopicMarket, Keywords: []string{"market", "trend", "price"}},
		{Topic: model.TopicInvestment, Keywords: []string{"investment", "roi", "rental"}},
		{Topic: model.TopicSearch, Keywords: []string{"search", "find", "property"}},
		{Topic: model.TopicAgent, Keywords: []string{"agent", "contact", "human"}},
	}
}

var cannedResponses = map[model.Topic]string{
	model.TopicMortgage:   "I can help you calculate mortgage payments! For a $500,000 home with 20% down payment and 3.5% interest rate over 30 years, your monthly payment would be approximately $1,796. Would you like me to calculate for different scenarios?",
	model.TopicMarket:     "Based on current market data, property values in your area have increased by 5.2% over the last year. The average time on market is 45 days, and there's a 3.2 month supply of inventory, indicating a seller's market.",
	model.TopicInvestment: "For investment properties, I recommend focusing on areas with strong rental demand. Look for properties with cap rates above 5% and positive cash flow potential. Consider factors like job growth, school ratings, and infrastructure development.",
	model.TopicSearch:     "I can help you find properties! What's your budget range, preferred location, and must-have features? I'll search our database and provide personalized recommendations.",
	model.TopicAgent:      "I'd be happy to connect you with one of our real estate agents! They can provide personalized assistance with property viewings, negotiations, and expert advice. Would you like me to open the contact form?",
	model.TopicDefault:    "I understand you're asking about real estate. I can help with property searches, mortgage calculations, market analysis, investment advice, and more. Could you please be more specific about what you'd like to know?",
}

var quickActions = []string{
	"Calculate mortgage payments",
	"Market trends in my area",
	"Investment property advice",
	"Find properties in my budget",
	"Contact a real estate agent",
}

// Dispatcher picks a canned response by keyword
type Dispatcher struct {
	rules     []TopicRule
	responses map[model.Topic]string
}

// NewDispatcher creates a dispatcher with the default rules and responses
func NewDispatcher() *Dispatcher {
	return &Dispatcher{rules: DefaultTopicRules(), responses: cannedResponses}
}

// Dispatch returns the topic of the first rule with a keyword in text
func (d *Dispatcher) Dispatch(text string) model.Topic {
	lower := strings.ToLower(text)
	for _, rule := range d.rules {
		for _, keyword := range rule.Keywords {
			if strings.Contains(lower, keyword) {
				return rule.Topic
			}
		}
	}
	return model.TopicDefault
}

// Response returns the canned text for a topic
func (d *Dispatcher) Response(topic model.Topic) string {
	if r, ok := d.responses[topic]; ok {
		return r
	}
	return d.responses[model.TopicDefault]
}

// Respond dispatches text and returns the topic with its canned reply
func (d *Dispatcher) Respond(text string) (model.Topic, string) {
	topic := d.Dispatch(text)
	return topic, d.Response(topic)
}

// QuickActions lists the prompts offered under the chat input
func QuickActions() []string {
	return append([]string(nil), quickActions...)
}
