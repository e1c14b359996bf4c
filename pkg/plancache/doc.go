/*
Package plancache keeps search results keyed by a fingerprint of the model.

It serializes concurrent requests for the same problem across goroutines and,
with a distributed locker, across replicas, so each distinct problem is searched
once and every other caller reads the stored answer.
*/
package plancache
