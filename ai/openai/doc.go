// Package openai provides ai service adapters for OpenAI-compatible APIs
// (OpenAI, Ollama, LocalAI, vLLM). Embeddings and summarization are backed by
// langchaingo clients; transcription is injected by the caller since the chat
// API surface does not cover audio.
package openai
