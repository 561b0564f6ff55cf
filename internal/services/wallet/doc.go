/*
Package wallet implements the value-moving operations of the platform:
deposit requests, withdrawals, peer transfers, and points-to-pool
conversion.

Every operation follows the same shape:

 1. Validate the input against the operation minimum.
 2. Pre-check the cached ledger snapshot for responsive feedback.
 3. Run the authoritative unit inside one database transaction: re-read
    the ledger row FOR UPDATE, apply the delta through the ledger
    primitive, persist, and append the audit transaction.

The pre-check is advisory only. If it passes but the in-transaction
re-read fails, the operation reports ErrConcurrentModification instead
of silently succeeding; the user resubmits, no automatic retry happens.

Deposits are the exception: they never mutate the ledger. A deposit only
queues a request row that the back office credits manually after
verifying the on-chain transfer.
*/
package wallet
