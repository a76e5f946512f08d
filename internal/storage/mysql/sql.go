package mysql

// Re-adding an item keeps its original created_at.
const addItemSQL = `
INSERT INTO wishlist_items (user_id, hotel_id)
VALUES (?, ?)
ON DUPLICATE KEY UPDATE
  hotel_id = VALUES(hotel_id)
`

const removeItemSQL = `
DELETE FROM wishlist_items
WHERE user_id = ? AND hotel_id = ?
`

const listItemsSQL = `
SELECT user_id, hotel_id, created_at
FROM wishlist_items
WHERE user_id = ?
ORDER BY created_at DESC, hotel_id ASC
`
