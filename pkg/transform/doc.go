// Package transform derives new ground tasks from existing ones: the agent
// partition of a multi-agent task, the projection onto a single agent, and
// the compilation of negative conditions into positive ones.
package transform
