// Package msgs defines the envelope and the generic replies exchanged
// between a tracer and its remote clients.
//
// Every packet is a Typed. The type ID names the schema: the top bit
// tells events from commands, the next 15 bits pick the group and the
// low 16 bits the message in it. Replies are commands with the reply
// bit set. Packages owning a group Register their schemas from init.
package msgs
