// Package llm provides language model clients used to augment shopping
// suggestions. It supports OpenAI and Gemini over their HTTP APIs, with
// provider auto-detection from configured keys, rate limiting and a
// ShoppingAdvisor that turns a model reply into item names.
package llm
