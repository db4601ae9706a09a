// Package scope provides the structured-concurrency grouping construct of
// the runtime. A Scope owns the tasks launched within it, provides a join
// point (Wait / Run return), and propagates cancellation and failures among
// siblings according to a policy. A Scope never finishes while any of its
// direct child tasks is non-terminal.
package scope
